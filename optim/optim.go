// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/descent/internal/optim"
	"github.com/born-ml/descent/internal/tensor"
)

// Optimizer is the uniform contract every update rule implements.
type Optimizer = optim.Optimizer

// Parameter is a named trainable tensor owned by the training loop.
type Parameter = optim.Parameter

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return optim.NewParameter(name, t)
}

// LearningRate is a mutable scalar cell shared between the training loop,
// the optimizer and Anneal.
type LearningRate = optim.LearningRate

// NewLearningRate creates a learning-rate cell with an initial value.
func NewLearningRate(value float32) *LearningRate {
	return optim.NewLearningRate(value)
}

// UpdateSet is the ordered batch of new values one GetUpdates call proposes.
type UpdateSet = optim.UpdateSet

// TensorUpdate is one pending tensor write in an UpdateSet.
type TensorUpdate = optim.TensorUpdate

// ScalarUpdate is one pending scalar write in an UpdateSet.
type ScalarUpdate = optim.ScalarUpdate

// DecaySchedule maps a coefficient and a timestep to the effective
// coefficient for that step (NAdam beta1 schedules, AMSGrad rate decay).
type DecaySchedule = optim.DecaySchedule

// DefaultNAdamDecay is NAdam's default beta1 schedule.
func DefaultNAdamDecay(beta1, t float32) float32 {
	return optim.DefaultNAdamDecay(beta1, t)
}

// Errors.
var (
	ErrShapeMismatch         = optim.ErrShapeMismatch
	ErrInvalidHyperparameter = optim.ErrInvalidHyperparameter
	ErrInvalidArgument       = optim.ErrInvalidArgument
)

// VanillaSGD

// VanillaSGD implements plain stochastic gradient descent.
type VanillaSGD = optim.VanillaSGD

// VanillaSGDConfig contains configuration for VanillaSGD.
type VanillaSGDConfig = optim.VanillaSGDConfig

// NewVanillaSGD creates a new VanillaSGD optimizer.
func NewVanillaSGD(params []*Parameter, config VanillaSGDConfig) (*VanillaSGD, error) {
	return optim.NewVanillaSGD(params, config)
}

// SGDMomentum

// SGDMomentum implements SGD with classical or Nesterov momentum.
type SGDMomentum = optim.SGDMomentum

// SGDMomentumConfig contains configuration for SGDMomentum.
type SGDMomentumConfig = optim.SGDMomentumConfig

// NewSGDMomentum creates a new momentum SGD optimizer.
func NewSGDMomentum(params []*Parameter, config SGDMomentumConfig) (*SGDMomentum, error) {
	return optim.NewSGDMomentum(params, config)
}

// AdaGrad

// AdaGrad scales steps by accumulated squared gradients.
type AdaGrad = optim.AdaGrad

// AdaGradConfig contains configuration for AdaGrad.
type AdaGradConfig = optim.AdaGradConfig

// NewAdaGrad creates a new AdaGrad optimizer.
func NewAdaGrad(params []*Parameter, config AdaGradConfig) (*AdaGrad, error) {
	return optim.NewAdaGrad(params, config)
}

// AdaDelta

// AdaDelta adapts step sizes without a base learning rate.
type AdaDelta = optim.AdaDelta

// AdaDeltaConfig contains configuration for AdaDelta.
type AdaDeltaConfig = optim.AdaDeltaConfig

// NewAdaDelta creates a new AdaDelta optimizer.
func NewAdaDelta(params []*Parameter, config AdaDeltaConfig) (*AdaDelta, error) {
	return optim.NewAdaDelta(params, config)
}

// RMSProp

// RMSProp divides the rate by a running rms of gradients.
type RMSProp = optim.RMSProp

// RMSPropConfig contains configuration for RMSProp.
type RMSPropConfig = optim.RMSPropConfig

// NewRMSProp creates a new RMSProp optimizer.
func NewRMSProp(params []*Parameter, config RMSPropConfig) (*RMSProp, error) {
	return optim.NewRMSProp(params, config)
}

// Adam

// Adam implements Adaptive Moment Estimation with bias correction.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer.
func NewAdam(params []*Parameter, config AdamConfig) (*Adam, error) {
	return optim.NewAdam(params, config)
}

// AdaMax

// AdaMax is the infinity-norm variant of Adam.
type AdaMax = optim.AdaMax

// AdaMaxConfig contains configuration for AdaMax.
type AdaMaxConfig = optim.AdaMaxConfig

// NewAdaMax creates a new AdaMax optimizer.
func NewAdaMax(params []*Parameter, config AdaMaxConfig) (*AdaMax, error) {
	return optim.NewAdaMax(params, config)
}

// NAdam

// NAdam is Nesterov-accelerated Adam with a decayed beta1 schedule.
type NAdam = optim.NAdam

// NAdamConfig contains configuration for NAdam.
type NAdamConfig = optim.NAdamConfig

// NewNAdam creates a new NAdam optimizer.
func NewNAdam(params []*Parameter, config NAdamConfig) (*NAdam, error) {
	return optim.NewNAdam(params, config)
}

// AMSGrad

// AMSGrad is Adam with a monotonically non-decreasing second moment.
type AMSGrad = optim.AMSGrad

// AMSGradConfig contains configuration for AMSGrad.
type AMSGradConfig = optim.AMSGradConfig

// NewAMSGrad creates a new AMSGrad optimizer.
func NewAMSGrad(params []*Parameter, config AMSGradConfig) (*AMSGrad, error) {
	return optim.NewAMSGrad(params, config)
}

// Annealing

// AnnealMethod selects a learning-rate schedule for Anneal.
type AnnealMethod = optim.AnnealMethod

// Supported annealing methods.
const (
	AnnealHalfLife    = optim.AnnealHalfLife
	AnnealStep        = optim.AnnealStep
	AnnealExponential = optim.AnnealExponential
	AnnealInverse     = optim.AnnealInverse
)

// AnnealOptions carries the per-method options for Anneal.
type AnnealOptions = optim.AnnealOptions

// Anneal mutates the learning-rate cell in place for step counter t.
func Anneal(lr *LearningRate, t int, method AnnealMethod, opts AnnealOptions) error {
	return optim.Anneal(lr, t, method, opts)
}
