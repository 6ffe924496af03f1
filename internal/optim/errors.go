package optim

import (
	"errors"
)

// Common errors.
//
// Passing a non-cell where a *LearningRate is required is a compile error in
// Go; the runtime equivalent is a nil cell, reported as ErrInvalidArgument.
var (
	ErrShapeMismatch         = errors.New("parameters and gradients disagree in length or shape")
	ErrInvalidHyperparameter = errors.New("hyperparameter out of domain")
	ErrInvalidArgument       = errors.New("invalid argument")
)
