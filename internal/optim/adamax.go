package optim

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/descent/internal/tensor"
)

// AdaMax is the infinity-norm variant of Adam: the second-moment running
// average is replaced by a running max of gradient magnitudes, which removes
// the second bias-correction term.
//
// Update rule, with t incremented once per call:
//
//	a_t   = lr / (1 - beta1^t)
//	m     = beta1 * m + (1 - beta1) * gradient
//	u     = max(beta2 * u, |gradient|)
//	param = param - a_t * m / (u + eps)
type AdaMax struct {
	base
	beta1 float32
	beta2 float32
	eps   float32
	t     float32
	m     []*tensor.Tensor
	u     []*tensor.Tensor // infinity-norm accumulator
}

// AdaMaxConfig holds configuration for AdaMax.
type AdaMaxConfig struct {
	LR    *LearningRate // Learning rate cell (default: private cell at 2e-3)
	Beta1 float32       // First-moment decay (default: 0.9)
	Beta2 float32       // Infinity-norm decay (default: 0.999)
	Eps   float32       // Numerical-stability constant (default: 1e-8)
}

// NewAdaMax creates a new AdaMax optimizer over the given parameters.
func NewAdaMax(params []*Parameter, config AdaMaxConfig) (*AdaMax, error) {
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	lr, err := lrCellOrDefault(config.LR, 2e-3)
	if err != nil {
		return nil, err
	}
	if err := checkUnitInterval("beta1", config.Beta1); err != nil {
		return nil, err
	}
	if err := checkUnitInterval("beta2", config.Beta2); err != nil {
		return nil, err
	}
	if err := checkEpsilon(config.Eps); err != nil {
		return nil, err
	}
	return &AdaMax{
		base:  newBase(params, lr),
		beta1: config.Beta1,
		beta2: config.Beta2,
		eps:   config.Eps,
		m:     zerosLike(params),
		u:     zerosLike(params),
	}, nil
}

// GetUpdates computes the AdaMax step for every parameter.
func (a *AdaMax) GetUpdates(grads []*tensor.Tensor) (*UpdateSet, error) {
	if err := a.checkGrads(grads); err != nil {
		return nil, err
	}

	t := a.t + 1
	at := a.lr.Value() / (1 - math32.Pow(a.beta1, t))

	u := newUpdateSet()
	for i, p := range a.params {
		g := grads[i]
		newM := tensor.AddScaled(tensor.Scale(a.beta1, a.m[i]), 1-a.beta1, g)
		newU := tensor.Maximum(tensor.Scale(a.beta2, a.u[i]), tensor.Abs(g))
		step := tensor.Scale(at, tensor.Div(newM, tensor.AddScalar(newU, a.eps)))

		u.addTensor(fmt.Sprintf("state:m.%d", i), a.m[i], newM)
		u.addTensor(fmt.Sprintf("state:u.%d", i), a.u[i], newU)
		u.addTensor("param:"+p.Name(), p.Tensor(), tensor.Sub(p.Tensor(), step))
	}
	u.addScalar("state:t", &a.t, t)
	return u, nil
}

// Reset zeroes the accumulators and the timestep.
func (a *AdaMax) Reset() {
	zeroAll(a.m)
	zeroAll(a.u)
	a.t = 0
}

// StateDict exports the accumulators and the timestep.
func (a *AdaMax) StateDict() map[string]*tensor.Tensor {
	dict := map[string]*tensor.Tensor{"t": tensor.Scalar(a.t)}
	exportSlots(dict, "m", a.m)
	exportSlots(dict, "u", a.u)
	return dict
}

// LoadStateDict restores state exported by StateDict.
func (a *AdaMax) LoadStateDict(state map[string]*tensor.Tensor) error {
	if err := importSlots(state, "m", a.m); err != nil {
		return err
	}
	if err := importSlots(state, "u", a.u); err != nil {
		return err
	}
	return importScalar(state, "t", &a.t)
}
