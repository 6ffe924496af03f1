package optim

import (
	"fmt"

	"github.com/chewxy/math32"
)

// AnnealMethod selects a learning-rate schedule for Anneal.
type AnnealMethod string

// Supported annealing methods.
const (
	AnnealHalfLife    AnnealMethod = "half-life"
	AnnealStep        AnnealMethod = "step"
	AnnealExponential AnnealMethod = "exponential"
	AnnealInverse     AnnealMethod = "inverse"
)

// AnnealOptions carries the per-method options for Anneal. A zero Decay
// selects the method's default.
type AnnealOptions struct {
	NumIters int     // total iteration count; required for AnnealHalfLife
	Step     int     // decay period; required for AnnealStep
	Decay    float32 // decay factor; default 0.1 (half-life), 0.5 (step), 1e-4 (exponential), 0.01 (inverse)
}

// Anneal mutates the learning-rate cell in place for step counter t.
//
// The schedules operate on the cell's current value, so the multiplicative
// methods compound across calls:
//
//	half-life:   lr *= decay          once t passes num_iters/2 (every call past it)
//	step:        lr *= decay          whenever t % step == 0
//	exponential: lr *= exp(-decay*t)
//	inverse:     lr /= 1 + decay*t
//
// Fails with ErrInvalidArgument for an unknown method, a missing required
// option, or a nil cell; the rate is left untouched on error.
func Anneal(lr *LearningRate, t int, method AnnealMethod, opts AnnealOptions) error {
	if lr == nil {
		return fmt.Errorf("%w: learning rate must be a mutable cell, got nil", ErrInvalidArgument)
	}

	current := lr.Value()
	switch method {
	case AnnealHalfLife:
		if opts.NumIters <= 0 {
			return fmt.Errorf("%w: num_iters must be provided for half-life annealing", ErrInvalidArgument)
		}
		decay := opts.Decay
		if decay == 0 {
			decay = 0.1
		}
		// The second threshold is subsumed by the first under integer
		// division; both are kept so the schedule fires exactly where the
		// published one does: on every call with t past the midpoint.
		if t > opts.NumIters/2 || t > 3*opts.NumIters/4 {
			lr.Set(current * decay)
		}
	case AnnealStep:
		if opts.Step <= 0 {
			return fmt.Errorf("%w: step must be provided for step annealing", ErrInvalidArgument)
		}
		decay := opts.Decay
		if decay == 0 {
			decay = 0.5
		}
		if t%opts.Step == 0 {
			lr.Set(current * decay)
		}
	case AnnealExponential:
		decay := opts.Decay
		if decay == 0 {
			decay = 1e-4
		}
		lr.Set(current * math32.Exp(-decay*float32(t)))
	case AnnealInverse:
		decay := opts.Decay
		if decay == 0 {
			decay = 0.01
		}
		lr.Set(current / (1 + decay*float32(t)))
	default:
		return fmt.Errorf("%w: unknown annealing method %q", ErrInvalidArgument, method)
	}
	return nil
}
