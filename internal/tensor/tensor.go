// Package tensor provides the flat float32 tensor the optimizer package
// computes with.
//
// The heavy lifting of a training system (gradient computation, batching,
// device placement) lives outside this module; the optimizers only need a
// mutable value buffer of fixed shape plus the handful of elementwise
// operations defined in ops.go.
package tensor

import (
	"fmt"
)

// Tensor is a dense float32 tensor with row-major storage.
//
// The zero value is not usable; construct with Zeros, Full, Scalar or
// FromSlice.
type Tensor struct {
	shape Shape
	data  []float32
}

// Zeros creates a tensor of the given shape filled with zeros.
func Zeros(shape Shape) *Tensor {
	return &Tensor{
		shape: shape.Clone(),
		data:  make([]float32, shape.NumElements()),
	}
}

// Full creates a tensor of the given shape filled with value.
func Full(shape Shape, value float32) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Scalar creates a shape-{1} tensor holding a single value.
//
// The optimizer package stores scalar state (timestep counters,
// accumulators) this way in state dicts.
func Scalar(value float32) *Tensor {
	return &Tensor{shape: Shape{1}, data: []float32{value}}
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	t := &Tensor{
		shape: shape.Clone(),
		data:  make([]float32, len(data)),
	}
	copy(t.data, data)
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the underlying storage slice.
//
// Mutations through the returned slice are visible to every holder of the
// tensor. The optimizer commit path (UpdateSet.Apply) writes through this.
func (t *Tensor) Data() []float32 {
	return t.data
}

// At returns the element at flat index i.
func (t *Tensor) At(i int) float32 {
	return t.data[i]
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	c := &Tensor{
		shape: t.shape.Clone(),
		data:  make([]float32, len(t.data)),
	}
	copy(c.data, t.data)
	return c
}

// CopyFrom copies src's contents into t. Panics on shape mismatch; callers
// in the optimizer layer validate shapes before reaching the tensor layer.
func (t *Tensor) CopyFrom(src *Tensor) {
	if !t.shape.Equal(src.shape) {
		panic(fmt.Sprintf("tensor: copy shape mismatch: %v vs %v", t.shape, src.shape))
	}
	copy(t.data, src.data)
}

// Zero sets every element to zero in place.
func (t *Tensor) Zero() {
	for i := range t.data {
		t.data[i] = 0
	}
}

// Equal reports whether two tensors have identical shape and bitwise equal
// contents.
func (t *Tensor) Equal(other *Tensor) bool {
	if !t.shape.Equal(other.shape) {
		return false
	}
	for i := range t.data {
		if t.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
