package optim

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/descent/internal/tensor"
)

// AMSGrad is Adam with a monotonically non-decreasing second moment: the
// denominator uses the running elementwise max of all second-moment values,
// so the effective step size can never grow because the denominator shrank.
// This is the modification that fixes Adam's non-convergence counterexample.
//
// Update rule, with t incremented once per call and an optional learning
// rate schedule eta_t = decay(lr, t):
//
//	a_t   = eta_t * sqrt(1 - beta2^t) / (1 - beta1^t)
//	m     = beta1 * m + (1 - beta1) * gradient
//	v     = beta2 * v + (1 - beta2) * gradient²
//	v^    = max(v^, v)
//	param = param - a_t * m / (sqrt(v^) + eps)
//
// Reference: "On the Convergence of Adam and Beyond" (Reddi et al., 2018)
type AMSGrad struct {
	base
	beta1 float32
	beta2 float32
	eps   float32
	decay DecaySchedule // applied to the learning rate, identity by default
	t     float32
	m     []*tensor.Tensor
	v     []*tensor.Tensor
	vHat  []*tensor.Tensor
}

// AMSGradConfig holds configuration for AMSGrad.
type AMSGradConfig struct {
	LR    *LearningRate // Learning rate cell (default: private cell at 1e-3)
	Beta1 float32       // First-moment decay (default: 0.9)
	Beta2 float32       // Second-moment decay (default: 0.99)
	Eps   float32       // Numerical-stability constant (default: 1e-8)
	Decay DecaySchedule // Learning-rate schedule over t (default: identity)
}

// NewAMSGrad creates a new AMSGrad optimizer over the given parameters.
func NewAMSGrad(params []*Parameter, config AMSGradConfig) (*AMSGrad, error) {
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.99
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	if config.Decay == nil {
		config.Decay = func(eta, t float32) float32 { return eta }
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
	return &AMSGrad{
		base:  newBase(params, lr),
		beta1: config.Beta1,
		beta2: config.Beta2,
		eps:   config.Eps,
		decay: config.Decay,
		m:     zerosLike(params),
		v:     zerosLike(params),
		vHat:  zerosLike(params),
	}, nil
}

// GetUpdates computes the AMSGrad step for every parameter.
func (a *AMSGrad) GetUpdates(grads []*tensor.Tensor) (*UpdateSet, error) {
	if err := a.checkGrads(grads); err != nil {
		return nil, err
	}

	t := a.t + 1
	etaT := a.decay(a.lr.Value(), t)
	at := etaT * math32.Sqrt(1-math32.Pow(a.beta2, t)) / (1 - math32.Pow(a.beta1, t))

	u := newUpdateSet()
	for i, p := range a.params {
		g := grads[i]
		newM := tensor.AddScaled(tensor.Scale(a.beta1, a.m[i]), 1-a.beta1, g)
		newV := tensor.AddScaled(tensor.Scale(a.beta2, a.v[i]), 1-a.beta2, tensor.Square(g))
		newVHat := tensor.Maximum(a.vHat[i], newV)
		step := tensor.Scale(at, tensor.Div(newM, tensor.AddScalar(tensor.Sqrt(newVHat), a.eps)))

		u.addTensor("param:"+p.Name(), p.Tensor(), tensor.Sub(p.Tensor(), step))
		u.addTensor(fmt.Sprintf("state:m.%d", i), a.m[i], newM)
		u.addTensor(fmt.Sprintf("state:v.%d", i), a.v[i], newV)
		u.addTensor(fmt.Sprintf("state:v_hat.%d", i), a.vHat[i], newVHat)
	}
	u.addScalar("state:t", &a.t, t)
	return u, nil
}

// Reset zeroes all accumulators and the timestep.
func (a *AMSGrad) Reset() {
	zeroAll(a.m)
	zeroAll(a.v)
	zeroAll(a.vHat)
	a.t = 0
}

// StateDict exports the moments, the running max and the timestep.
func (a *AMSGrad) StateDict() map[string]*tensor.Tensor {
	dict := map[string]*tensor.Tensor{"t": tensor.Scalar(a.t)}
	exportSlots(dict, "m", a.m)
	exportSlots(dict, "v", a.v)
	exportSlots(dict, "v_hat", a.vHat)
	return dict
}

// LoadStateDict restores state exported by StateDict.
func (a *AMSGrad) LoadStateDict(state map[string]*tensor.Tensor) error {
	if err := importSlots(state, "m", a.m); err != nil {
		return err
	}
	if err := importSlots(state, "v", a.v); err != nil {
		return err
	}
	if err := importSlots(state, "v_hat", a.vHat); err != nil {
		return err
	}
	return importScalar(state, "t", &a.t)
}
