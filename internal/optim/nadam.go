package optim

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/descent/internal/tensor"
)

// DecaySchedule maps a decay coefficient and a (1-based) timestep to the
// effective coefficient for that step. NAdam uses it to decay beta1 over
// time; t arrives as a float so fractional-period schedules stay exact.
type DecaySchedule func(coeff, t float32) float32

// DefaultNAdamDecay is the schedule NAdam uses when none is configured:
// beta1 decays geometrically with a period of 250 steps.
//
//	beta1_t = beta1 * (1 - 0.5 * 0.96^(t/250))
func DefaultNAdamDecay(beta1, t float32) float32 {
	return beta1 * (1 - 0.5*math32.Pow(0.96, t/250))
}

// NAdam is Nesterov-accelerated Adam: the momentum term is interpolated one
// step ahead using a time-decayed beta1 schedule, whose running product
// replaces the plain beta1^t bias correction.
//
// Per step (t incremented once per call, acc starting at 1):
//
//	b_t   = decay(beta1, t)
//	b_t1  = decay(beta1, t+1)
//	acc   = acc * b_t
//	g^    = gradient / (1 - acc)
//	m     = beta1 * m + (1 - beta1) * gradient
//	m^    = m / (1 - acc * b_t1)
//	n     = beta2 * n + (1 - beta2) * gradient²
//	n^    = n / (1 - beta2^t)
//	m̄     = (1 - beta1) * g^ + b_t1 * m^
//	param = param - lr * m̄ / (sqrt(n^) + eps)
//
// Reference: "Incorporating Nesterov Momentum into Adam" (Dozat, 2016)
type NAdam struct {
	base
	beta1    float32
	beta2    float32
	eps      float32
	decay    DecaySchedule
	t        float32
	beta1Acc float32 // running product of decayed beta1, starts at 1
	m        []*tensor.Tensor
	n        []*tensor.Tensor
}

// NAdamConfig holds configuration for NAdam.
type NAdamConfig struct {
	LR    *LearningRate // Learning rate cell (default: private cell at 1e-3)
	Beta1 float32       // First-moment decay (default: 0.99)
	Beta2 float32       // Second-moment decay (default: 0.999)
	Eps   float32       // Numerical-stability constant (default: 1e-8)
	Decay DecaySchedule // Beta1 schedule (default: DefaultNAdamDecay)
}

// NewNAdam creates a new NAdam optimizer over the given parameters.
func NewNAdam(params []*Parameter, config NAdamConfig) (*NAdam, error) {
	if config.Beta1 == 0 {
		config.Beta1 = 0.99
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	if config.Decay == nil {
		config.Decay = DefaultNAdamDecay
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
	return &NAdam{
		base:     newBase(params, lr),
		beta1:    config.Beta1,
		beta2:    config.Beta2,
		eps:      config.Eps,
		decay:    config.Decay,
		beta1Acc: 1,
		m:        zerosLike(params),
		n:        zerosLike(params),
	}, nil
}

// GetUpdates computes the NAdam step for every parameter.
func (a *NAdam) GetUpdates(grads []*tensor.Tensor) (*UpdateSet, error) {
	if err := a.checkGrads(grads); err != nil {
		return nil, err
	}

	t := a.t + 1
	eta := a.lr.Value()
	beta1T := a.decay(a.beta1, t)
	beta1T1 := a.decay(a.beta1, t+1)
	beta1AccT := a.beta1Acc * beta1T
	biasCorrection2 := 1 - math32.Pow(a.beta2, t)

	u := newUpdateSet()
	for i, p := range a.params {
		g := grads[i]
		gHat := tensor.Scale(1/(1-beta1AccT), g)
		newM := tensor.AddScaled(tensor.Scale(a.beta1, a.m[i]), 1-a.beta1, g)
		mHat := tensor.Scale(1/(1-beta1AccT*beta1T1), newM)
		newN := tensor.AddScaled(tensor.Scale(a.beta2, a.n[i]), 1-a.beta2, tensor.Square(g))
		nHat := tensor.Scale(1/biasCorrection2, newN)
		mBar := tensor.Add(tensor.Scale(1-a.beta1, gHat), tensor.Scale(beta1T1, mHat))
		step := tensor.Scale(eta, tensor.Div(mBar, tensor.AddScalar(tensor.Sqrt(nHat), a.eps)))

		u.addTensor("param:"+p.Name(), p.Tensor(), tensor.Sub(p.Tensor(), step))
		u.addTensor(fmt.Sprintf("state:m.%d", i), a.m[i], newM)
		u.addTensor(fmt.Sprintf("state:n.%d", i), a.n[i], newN)
	}
	u.addScalar("state:beta1_acc", &a.beta1Acc, beta1AccT)
	u.addScalar("state:t", &a.t, t)
	return u, nil
}

// Reset restores the moments, the timestep and the beta1 product to their
// initial values (zeros, 0 and 1).
func (a *NAdam) Reset() {
	zeroAll(a.m)
	zeroAll(a.n)
	a.t = 0
	a.beta1Acc = 1
}

// StateDict exports the moments, timestep and beta1 product.
func (a *NAdam) StateDict() map[string]*tensor.Tensor {
	dict := map[string]*tensor.Tensor{
		"t":         tensor.Scalar(a.t),
		"beta1_acc": tensor.Scalar(a.beta1Acc),
	}
	exportSlots(dict, "m", a.m)
	exportSlots(dict, "n", a.n)
	return dict
}

// LoadStateDict restores state exported by StateDict.
func (a *NAdam) LoadStateDict(state map[string]*tensor.Tensor) error {
	if err := importSlots(state, "m", a.m); err != nil {
		return err
	}
	if err := importSlots(state, "n", a.n); err != nil {
		return err
	}
	if err := importScalar(state, "t", &a.t); err != nil {
		return err
	}
	return importScalar(state, "beta1_acc", &a.beta1Acc)
}
