package optim

import (
	"fmt"

	"github.com/born-ml/descent/internal/tensor"
)

// RMSProp divides the learning rate by a running average of squared
// gradient magnitudes.
//
// Update rule, with E[g²] the average from before this step:
//
//	E[g²] = gamma * E[g²] + (1 - gamma) * gradient²
//	param = param - lr * gradient / sqrt(E[g²] + eps)
type RMSProp struct {
	base
	gamma     float32
	eps       float32
	avgSqGrad []*tensor.Tensor
}

// RMSPropConfig holds configuration for RMSProp.
type RMSPropConfig struct {
	LR    *LearningRate // Learning rate cell (default: private cell at 1e-3)
	Gamma float32       // Decay rate of the squared-gradient average (default: 0.9)
	Eps   float32       // Numerical-stability constant (default: 1e-6)
}

// NewRMSProp creates a new RMSProp optimizer over the given parameters.
func NewRMSProp(params []*Parameter, config RMSPropConfig) (*RMSProp, error) {
	if config.Gamma == 0 {
		config.Gamma = 0.9
	}
	if config.Eps == 0 {
		config.Eps = 1e-6
	}
	lr, err := lrCellOrDefault(config.LR, 1e-3)
	if err != nil {
		return nil, err
	}
	if err := checkUnitInterval("gamma", config.Gamma); err != nil {
		return nil, err
	}
	if err := checkEpsilon(config.Eps); err != nil {
		return nil, err
	}
	return &RMSProp{
		base:      newBase(params, lr),
		gamma:     config.Gamma,
		eps:       config.Eps,
		avgSqGrad: zerosLike(params),
	}, nil
}

// GetUpdates computes the RMSProp step for every parameter.
func (r *RMSProp) GetUpdates(grads []*tensor.Tensor) (*UpdateSet, error) {
	if err := r.checkGrads(grads); err != nil {
		return nil, err
	}
	eta := r.lr.Value()

	u := newUpdateSet()
	for i, p := range r.params {
		g := grads[i]
		newAvg := tensor.Add(
			tensor.Scale(r.gamma, r.avgSqGrad[i]),
			tensor.Scale(1-r.gamma, tensor.Square(g)),
		)
		// Step divides by the pre-step average, per the simultaneous-update
		// contract of the UpdateSet.
		step := tensor.Div(
			tensor.Scale(eta, g),
			tensor.Sqrt(tensor.AddScalar(r.avgSqGrad[i], r.eps)),
		)

		u.addTensor(fmt.Sprintf("state:square_avg.%d", i), r.avgSqGrad[i], newAvg)
		u.addTensor("param:"+p.Name(), p.Tensor(), tensor.Sub(p.Tensor(), step))
	}
	return u, nil
}

// Reset zeroes the squared-gradient averages.
func (r *RMSProp) Reset() {
	zeroAll(r.avgSqGrad)
}

// StateDict exports the averages under "square_avg.{i}" keys.
func (r *RMSProp) StateDict() map[string]*tensor.Tensor {
	dict := map[string]*tensor.Tensor{}
	exportSlots(dict, "square_avg", r.avgSqGrad)
	return dict
}

// LoadStateDict restores averages exported by StateDict.
func (r *RMSProp) LoadStateDict(state map[string]*tensor.Tensor) error {
	return importSlots(state, "square_avg", r.avgSqGrad)
}
