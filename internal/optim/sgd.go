package optim

import (
	"fmt"

	"github.com/born-ml/descent/internal/tensor"
)

// VanillaSGD implements plain stochastic gradient descent.
//
// Update rule:
//
//	param = param - lr * gradient
//
// No auxiliary state is kept.
type VanillaSGD struct {
	base
}

// VanillaSGDConfig holds configuration for VanillaSGD.
type VanillaSGDConfig struct {
	LR *LearningRate // Learning rate cell (required)
}

// NewVanillaSGD creates a new VanillaSGD optimizer over the given parameters.
func NewVanillaSGD(params []*Parameter, config VanillaSGDConfig) (*VanillaSGD, error) {
	if err := checkLRCell(config.LR); err != nil {
		return nil, err
	}
	return &VanillaSGD{base: newBase(params, config.LR)}, nil
}

// GetUpdates computes param - lr*grad for every parameter.
func (s *VanillaSGD) GetUpdates(grads []*tensor.Tensor) (*UpdateSet, error) {
	if err := s.checkGrads(grads); err != nil {
		return nil, err
	}
	eta := s.lr.Value()

	u := newUpdateSet()
	for i, p := range s.params {
		u.addTensor("param:"+p.Name(), p.Tensor(), tensor.AddScaled(p.Tensor(), -eta, grads[i]))
	}
	return u, nil
}

// Reset is a no-op; VanillaSGD keeps no state.
func (s *VanillaSGD) Reset() {}

// StateDict returns an empty map; VanillaSGD keeps no state.
func (s *VanillaSGD) StateDict() map[string]*tensor.Tensor {
	return map[string]*tensor.Tensor{}
}

// LoadStateDict accepts and ignores any state; VanillaSGD keeps none.
func (s *VanillaSGD) LoadStateDict(state map[string]*tensor.Tensor) error {
	return nil
}

// SGDMomentum implements SGD with classical or Nesterov momentum.
//
// Classical momentum:
//
//	velocity = alpha * velocity - lr * gradient
//	param    = param + velocity
//
// The Nesterov variant uses the reformulation that evaluates the gradient at
// the current point only, trading an extra expression for avoiding a second
// gradient evaluation at the lookahead position:
//
//	velocity = alpha * velocity - lr * gradient
//	param    = param - lr * gradient + alpha * velocity
type SGDMomentum struct {
	base
	alpha      float32
	nesterov   bool
	velocities []*tensor.Tensor
}

// SGDMomentumConfig holds configuration for SGDMomentum.
type SGDMomentumConfig struct {
	LR       *LearningRate // Learning rate cell (required)
	Momentum float32       // Momentum coefficient alpha, in [0, 1)
	Nesterov bool          // Use the Nesterov lookahead form
}

// NewSGDMomentum creates a new momentum SGD optimizer over the given
// parameters. Velocity buffers are allocated up front, one per parameter.
func NewSGDMomentum(params []*Parameter, config SGDMomentumConfig) (*SGDMomentum, error) {
	if err := checkLRCell(config.LR); err != nil {
		return nil, err
	}
	if config.Momentum < 0 || config.Momentum >= 1 {
		return nil, fmt.Errorf("%w: momentum = %v (want in [0, 1))",
			ErrInvalidHyperparameter, config.Momentum)
	}
	return &SGDMomentum{
		base:       newBase(params, config.LR),
		alpha:      config.Momentum,
		nesterov:   config.Nesterov,
		velocities: zerosLike(params),
	}, nil
}

// GetUpdates computes the momentum step for every parameter.
func (s *SGDMomentum) GetUpdates(grads []*tensor.Tensor) (*UpdateSet, error) {
	if err := s.checkGrads(grads); err != nil {
		return nil, err
	}
	eta := s.lr.Value()

	u := newUpdateSet()
	for i, p := range s.params {
		// x = alpha*v - lr*g, from the velocity before this step.
		x := tensor.AddScaled(tensor.Scale(s.alpha, s.velocities[i]), -eta, grads[i])

		var newParam *tensor.Tensor
		if s.nesterov {
			// param - lr*g + alpha*x
			newParam = tensor.AddScaled(tensor.AddScaled(p.Tensor(), -eta, grads[i]), s.alpha, x)
		} else {
			newParam = tensor.Add(p.Tensor(), x)
		}

		u.addTensor("param:"+p.Name(), p.Tensor(), newParam)
		u.addTensor(fmt.Sprintf("state:velocity.%d", i), s.velocities[i], x)
	}
	return u, nil
}

// Reset zeroes all velocity buffers.
func (s *SGDMomentum) Reset() {
	zeroAll(s.velocities)
}

// StateDict exports the velocity buffers under "velocity.{i}" keys.
func (s *SGDMomentum) StateDict() map[string]*tensor.Tensor {
	dict := map[string]*tensor.Tensor{}
	exportSlots(dict, "velocity", s.velocities)
	return dict
}

// LoadStateDict restores velocity buffers exported by StateDict.
func (s *SGDMomentum) LoadStateDict(state map[string]*tensor.Tensor) error {
	return importSlots(state, "velocity", s.velocities)
}
