// Package optim implements gradient-based update rules for iterative
// numerical training loops.
//
// This package provides:
//   - Optimizer interface: the uniform contract every rule implements
//   - VanillaSGD, SGDMomentum (with Nesterov variant)
//   - AdaGrad, AdaDelta, RMSProp
//   - Adam, AdaMax, NAdam, AMSGrad
//   - Anneal: external learning-rate schedules
//
// Optimizers do not compute gradients; an external collaborator (autodiff
// engine, finite differences, hand-derived formulas) produces one gradient
// per parameter and the training loop feeds them in:
//
//	lr := optim.NewLearningRate(0.001)
//	opt, err := optim.NewAdam(params, optim.AdamConfig{LR: lr})
//	if err != nil { ... }
//
//	for step := 0; step < numSteps; step++ {
//	    grads := computeGradients(params)
//	    updates, err := opt.GetUpdates(grads)
//	    if err != nil { ... }
//	    updates.Apply()
//	    optim.Anneal(lr, step, optim.AnnealStep, optim.AnnealOptions{Step: 1000})
//	}
//
// GetUpdates never mutates parameters or optimizer state; Apply commits the
// whole batch at once. Optimizer state is exclusively owned by one instance
// and must not be shared across goroutines.
package optim

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/descent/internal/tensor"
)

// Optimizer is the uniform contract every update rule implements.
type Optimizer interface {
	// GetUpdates computes the pending writes for one step from the current
	// state and one gradient per bound parameter, in parameter order.
	//
	// It is a pure function of state plus inputs: nothing is mutated until
	// the returned UpdateSet is applied. Fails with ErrShapeMismatch if the
	// gradient count or any gradient shape disagrees with the parameters
	// bound at construction.
	GetUpdates(grads []*tensor.Tensor) (*UpdateSet, error)

	// Reset restores all accumulated state to its initial values and leaves
	// hyperparameters untouched. Idempotent; a reset optimizer behaves like
	// a freshly constructed one.
	Reset()

	// GetLR returns the current base learning rate.
	GetLR() float32

	// SetLR replaces the base learning rate.
	//
	// Prefer sharing the cell returned by LR with Anneal for scheduling.
	SetLR(lr float32)

	// LR returns the shared learning-rate cell.
	LR() *LearningRate

	// StateDict exports all accumulated state for checkpointing. Scalar
	// state (timesteps, accumulators) is stored as shape-{1} tensors.
	StateDict() map[string]*tensor.Tensor

	// LoadStateDict restores previously exported state. Entries absent from
	// the dict keep their current values; shape disagreements fail with
	// ErrShapeMismatch before anything is written.
	LoadStateDict(state map[string]*tensor.Tensor) error
}

// base carries the fields and plumbing shared by every optimizer.
type base struct {
	params []*Parameter
	lr     *LearningRate
}

func newBase(params []*Parameter, lr *LearningRate) base {
	return base{params: params, lr: lr}
}

// GetLR returns the current base learning rate.
func (b *base) GetLR() float32 {
	return b.lr.Value()
}

// SetLR replaces the base learning rate.
func (b *base) SetLR(lr float32) {
	b.lr.Set(lr)
}

// LR returns the shared learning-rate cell.
func (b *base) LR() *LearningRate {
	return b.lr
}

// checkGrads validates the gradient slice against the bound parameters.
func (b *base) checkGrads(grads []*tensor.Tensor) error {
	if len(grads) != len(b.params) {
		return fmt.Errorf("%w: got %d gradients for %d parameters",
			ErrShapeMismatch, len(grads), len(b.params))
	}
	for i, g := range grads {
		if g == nil {
			return fmt.Errorf("%w: nil gradient for parameter %q", ErrShapeMismatch, b.params[i].Name())
		}
		if !g.Shape().Equal(b.params[i].Tensor().Shape()) {
			return fmt.Errorf("%w: parameter %q has shape %v, gradient has shape %v",
				ErrShapeMismatch, b.params[i].Name(), b.params[i].Tensor().Shape(), g.Shape())
		}
	}
	return nil
}

// zerosLike allocates one zero state buffer per bound parameter.
func zerosLike(params []*Parameter) []*tensor.Tensor {
	out := make([]*tensor.Tensor, len(params))
	for i, p := range params {
		out[i] = tensor.Zeros(p.Tensor().Shape())
	}
	return out
}

func zeroAll(buffers []*tensor.Tensor) {
	for _, b := range buffers {
		b.Zero()
	}
}

// exportSlots writes one state buffer per parameter into dict under
// "prefix.i" keys, the layout LoadStateDict expects back.
func exportSlots(dict map[string]*tensor.Tensor, prefix string, buffers []*tensor.Tensor) {
	for i, b := range buffers {
		dict[fmt.Sprintf("%s.%d", prefix, i)] = b.Clone()
	}
}

// importSlots restores "prefix.i" entries into buffers, validating shapes
// first so a bad dict leaves the state untouched.
func importSlots(dict map[string]*tensor.Tensor, prefix string, buffers []*tensor.Tensor) error {
	for i, b := range buffers {
		key := fmt.Sprintf("%s.%d", prefix, i)
		src, ok := dict[key]
		if !ok {
			continue
		}
		if !src.Shape().Equal(b.Shape()) {
			return fmt.Errorf("%w: state %q has shape %v, want %v",
				ErrShapeMismatch, key, src.Shape(), b.Shape())
		}
	}
	for i, b := range buffers {
		if src, ok := dict[fmt.Sprintf("%s.%d", prefix, i)]; ok {
			b.CopyFrom(src)
		}
	}
	return nil
}

// importScalar restores a shape-{1} entry into a scalar cell if present.
func importScalar(dict map[string]*tensor.Tensor, key string, dst *float32) error {
	src, ok := dict[key]
	if !ok {
		return nil
	}
	if src.NumElements() != 1 {
		return fmt.Errorf("%w: state %q has shape %v, want a scalar",
			ErrShapeMismatch, key, src.Shape())
	}
	*dst = src.At(0)
	return nil
}

// checkUnitInterval validates a decay coefficient in (0, 1).
func checkUnitInterval(name string, v float32) error {
	if math32.IsNaN(v) || v <= 0 || v >= 1 {
		return fmt.Errorf("%w: %s = %v (want in (0, 1))", ErrInvalidHyperparameter, name, v)
	}
	return nil
}

// checkEpsilon validates a numerical-stability constant.
func checkEpsilon(v float32) error {
	if math32.IsNaN(v) || math32.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: epsilon = %v (want finite and > 0)", ErrInvalidHyperparameter, v)
	}
	return nil
}

// checkLRCell validates a required, externally supplied learning-rate cell.
func checkLRCell(lr *LearningRate) error {
	if lr == nil {
		return fmt.Errorf("%w: learning rate cell is required", ErrInvalidHyperparameter)
	}
	if !validLR(lr.Value()) {
		return fmt.Errorf("%w: learning rate = %v (want finite and > 0)",
			ErrInvalidHyperparameter, lr.Value())
	}
	return nil
}

// lrCellOrDefault returns lr, or a private cell at def when lr is nil.
func lrCellOrDefault(lr *LearningRate, def float32) (*LearningRate, error) {
	if lr == nil {
		return NewLearningRate(def), nil
	}
	if err := checkLRCell(lr); err != nil {
		return nil, err
	}
	return lr, nil
}
