package optim

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/descent/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Adam combines ideas from RMSProp and momentum: it keeps exponential moving
// averages of gradients (first moment) and squared gradients (second moment)
// and folds the zero-initialization bias correction into the step size.
//
// Update rule, with t incremented once per call (shared across parameters):
//
//	a_t   = lr * sqrt(1 - beta2^t) / (1 - beta1^t)
//	m     = beta1 * m + (1 - beta1) * gradient
//	v     = beta2 * v + (1 - beta2) * gradient²
//	param = param - a_t * m / (sqrt(v) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	base
	beta1 float32
	beta2 float32
	eps   float32
	t     float32 // timestep, shared scalar state
	m     []*tensor.Tensor
	v     []*tensor.Tensor
}

// AdamConfig holds configuration for Adam.
type AdamConfig struct {
	LR    *LearningRate // Learning rate cell (default: private cell at 1e-3)
	Beta1 float32       // First-moment decay (default: 0.9)
	Beta2 float32       // Second-moment decay (default: 0.999)
	Eps   float32       // Numerical-stability constant (default: 1e-8)
}

// NewAdam creates a new Adam optimizer over the given parameters.
func NewAdam(params []*Parameter, config AdamConfig) (*Adam, error) {
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	lr, err := lrCellOrDefault(config.LR, 1e-3)
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
	return &Adam{
		base:  newBase(params, lr),
		beta1: config.Beta1,
		beta2: config.Beta2,
		eps:   config.Eps,
		m:     zerosLike(params),
		v:     zerosLike(params),
	}, nil
}

// GetUpdates computes the Adam step for every parameter.
func (a *Adam) GetUpdates(grads []*tensor.Tensor) (*UpdateSet, error) {
	if err := a.checkGrads(grads); err != nil {
		return nil, err
	}

	t := a.t + 1
	at := a.lr.Value() * math32.Sqrt(1-math32.Pow(a.beta2, t)) / (1 - math32.Pow(a.beta1, t))

	u := newUpdateSet()
	for i, p := range a.params {
		g := grads[i]
		newM := tensor.AddScaled(tensor.Scale(a.beta1, a.m[i]), 1-a.beta1, g)
		newV := tensor.AddScaled(tensor.Scale(a.beta2, a.v[i]), 1-a.beta2, tensor.Square(g))
		step := tensor.Scale(at, tensor.Div(newM, tensor.AddScalar(tensor.Sqrt(newV), a.eps)))

		u.addTensor(fmt.Sprintf("state:m.%d", i), a.m[i], newM)
		u.addTensor(fmt.Sprintf("state:v.%d", i), a.v[i], newV)
		u.addTensor("param:"+p.Name(), p.Tensor(), tensor.Sub(p.Tensor(), step))
	}
	u.addScalar("state:t", &a.t, t)
	return u, nil
}

// Reset zeroes the moment buffers and the timestep.
func (a *Adam) Reset() {
	zeroAll(a.m)
	zeroAll(a.v)
	a.t = 0
}

// Timestep returns the number of applied steps.
func (a *Adam) Timestep() int {
	return int(a.t)
}

// StateDict exports both moments and the timestep.
func (a *Adam) StateDict() map[string]*tensor.Tensor {
	dict := map[string]*tensor.Tensor{"t": tensor.Scalar(a.t)}
	exportSlots(dict, "m", a.m)
	exportSlots(dict, "v", a.v)
	return dict
}

// LoadStateDict restores state exported by StateDict.
func (a *Adam) LoadStateDict(state map[string]*tensor.Tensor) error {
	if err := importSlots(state, "m", a.m); err != nil {
		return err
	}
	if err := importSlots(state, "v", a.v); err != nil {
		return err
	}
	return importScalar(state, "t", &a.t)
}
