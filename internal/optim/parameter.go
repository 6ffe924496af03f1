package optim

import (
	"github.com/born-ml/descent/internal/tensor"
)

// Parameter is a named trainable tensor.
//
// The training loop owns the parameter and its storage; optimizers never
// create or destroy parameters, they only propose new values through an
// UpdateSet. Gradients are not held on the parameter; they arrive as
// arguments to GetUpdates, one per parameter, and are not retained.
//
// Example:
//
//	w, _ := tensor.FromSlice(weights, tensor.Shape{784, 10})
//	param := optim.NewParameter("linear.weight", w)
type Parameter struct {
	name   string         // Parameter name (e.g., "weight", "bias")
	tensor *tensor.Tensor // The parameter tensor
}

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}
