package optim

import (
	"fmt"

	"github.com/born-ml/descent/internal/tensor"
)

// AdaDelta adapts the step size per coordinate from the ratio of running
// averages of squared updates and squared gradients; no base learning rate
// is consumed.
//
// Update rule, with E[g²] and E[dx²] the averages from before this step:
//
//	dx     = sqrt(E[dx²] + eps) / sqrt(E[g²] + eps) * gradient
//	param  = param - dx
//	E[dx²] = rho * E[dx²] + (1 - rho) * dx²
//	E[g²]  = rho * E[g²]  + (1 - rho) * gradient²
//
// Reference: "ADADELTA: An Adaptive Learning Rate Method" (Zeiler, 2012)
type AdaDelta struct {
	base
	rho       float32
	eps       float32
	avgSqGrad []*tensor.Tensor // E[g²]
	avgSqDx   []*tensor.Tensor // E[dx²]
	prevDx    []*tensor.Tensor // last applied update, exported with the state
}

// AdaDeltaConfig holds configuration for AdaDelta.
type AdaDeltaConfig struct {
	Rho float32 // Decay rate for both running averages (default: 0.95)
	Eps float32 // Numerical-stability constant (default: 1e-6)
}

// NewAdaDelta creates a new AdaDelta optimizer over the given parameters.
// The rate is self-adaptive, so unlike the other optimizers there is no
// learning-rate cell; GetLR reports 0.
func NewAdaDelta(params []*Parameter, config AdaDeltaConfig) (*AdaDelta, error) {
	if config.Rho == 0 {
		config.Rho = 0.95
	}
	if config.Eps == 0 {
		config.Eps = 1e-6
	}
	if err := checkUnitInterval("rho", config.Rho); err != nil {
		return nil, err
	}
	if err := checkEpsilon(config.Eps); err != nil {
		return nil, err
	}
	return &AdaDelta{
		base:      newBase(params, NewLearningRate(0)),
		rho:       config.Rho,
		eps:       config.Eps,
		avgSqGrad: zerosLike(params),
		avgSqDx:   zerosLike(params),
		prevDx:    zerosLike(params),
	}, nil
}

// GetUpdates computes the AdaDelta step for every parameter.
func (a *AdaDelta) GetUpdates(grads []*tensor.Tensor) (*UpdateSet, error) {
	if err := a.checkGrads(grads); err != nil {
		return nil, err
	}

	u := newUpdateSet()
	for i, p := range a.params {
		g := grads[i]
		dx := tensor.Mul(
			tensor.Div(
				tensor.Sqrt(tensor.AddScalar(a.avgSqDx[i], a.eps)),
				tensor.Sqrt(tensor.AddScalar(a.avgSqGrad[i], a.eps)),
			),
			g,
		)
		newAvgSqDx := tensor.Add(
			tensor.Scale(a.rho, a.avgSqDx[i]),
			tensor.Scale(1-a.rho, tensor.Square(dx)),
		)
		newAvgSqGrad := tensor.Add(
			tensor.Scale(a.rho, a.avgSqGrad[i]),
			tensor.Scale(1-a.rho, tensor.Square(g)),
		)

		u.addTensor("param:"+p.Name(), p.Tensor(), tensor.Sub(p.Tensor(), dx))
		u.addTensor(fmt.Sprintf("state:delta_prev.%d", i), a.prevDx[i], dx)
		u.addTensor(fmt.Sprintf("state:avg_sq_delta.%d", i), a.avgSqDx[i], newAvgSqDx)
		u.addTensor(fmt.Sprintf("state:avg_sq_grad.%d", i), a.avgSqGrad[i], newAvgSqGrad)
	}
	return u, nil
}

// Reset zeroes all running averages and the stored previous update.
func (a *AdaDelta) Reset() {
	zeroAll(a.avgSqGrad)
	zeroAll(a.avgSqDx)
	zeroAll(a.prevDx)
}

// StateDict exports the running averages and previous update per parameter.
func (a *AdaDelta) StateDict() map[string]*tensor.Tensor {
	dict := map[string]*tensor.Tensor{}
	exportSlots(dict, "avg_sq_grad", a.avgSqGrad)
	exportSlots(dict, "avg_sq_delta", a.avgSqDx)
	exportSlots(dict, "delta_prev", a.prevDx)
	return dict
}

// LoadStateDict restores state exported by StateDict.
func (a *AdaDelta) LoadStateDict(state map[string]*tensor.Tensor) error {
	if err := importSlots(state, "avg_sq_grad", a.avgSqGrad); err != nil {
		return err
	}
	if err := importSlots(state, "avg_sq_delta", a.avgSqDx); err != nil {
		return err
	}
	return importSlots(state, "delta_prev", a.prevDx)
}
