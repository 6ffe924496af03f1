package optim

import (
	"github.com/born-ml/descent/internal/tensor"
)

// TensorUpdate is one pending write of a tensor target (a parameter or a
// tensor-shaped state slot).
type TensorUpdate struct {
	Name   string // target label, e.g. "param:weight" or "state:m.0"
	Value  *tensor.Tensor
	target *tensor.Tensor
}

// ScalarUpdate is one pending write of a scalar state cell (timestep
// counters, product accumulators).
type ScalarUpdate struct {
	Name   string
	Value  float32
	target *float32
}

// UpdateSet is the ordered batch of new values one GetUpdates call proposes.
//
// Nothing is written until Apply: GetUpdates is a pure function of the
// optimizer's current state and the gradients, so calling it repeatedly
// without applying yields identical sets. Apply commits every entry, so
// parameters and auxiliary state advance together as one logical step.
type UpdateSet struct {
	tensors []TensorUpdate
	scalars []ScalarUpdate
}

func newUpdateSet() *UpdateSet {
	return &UpdateSet{}
}

func (u *UpdateSet) addTensor(name string, target, value *tensor.Tensor) {
	u.tensors = append(u.tensors, TensorUpdate{Name: name, Value: value, target: target})
}

func (u *UpdateSet) addScalar(name string, target *float32, value float32) {
	u.scalars = append(u.scalars, ScalarUpdate{Name: name, Value: value, target: target})
}

// Apply commits every pending value to its target storage.
func (u *UpdateSet) Apply() {
	for _, tu := range u.tensors {
		tu.target.CopyFrom(tu.Value)
	}
	for _, su := range u.scalars {
		*su.target = su.Value
	}
}

// Len returns the total number of pending writes.
func (u *UpdateSet) Len() int {
	return len(u.tensors) + len(u.scalars)
}

// Tensors returns the pending tensor writes in emission order.
func (u *UpdateSet) Tensors() []TensorUpdate {
	return u.tensors
}

// Scalars returns the pending scalar writes in emission order.
func (u *UpdateSet) Scalars() []ScalarUpdate {
	return u.scalars
}

// Equal reports whether two update sets carry identical values in identical
// order. Useful for asserting determinism; targets are not compared.
func (u *UpdateSet) Equal(other *UpdateSet) bool {
	if len(u.tensors) != len(other.tensors) || len(u.scalars) != len(other.scalars) {
		return false
	}
	for i := range u.tensors {
		if u.tensors[i].Name != other.tensors[i].Name || !u.tensors[i].Value.Equal(other.tensors[i].Value) {
			return false
		}
	}
	for i := range u.scalars {
		if u.scalars[i].Name != other.scalars[i].Name || u.scalars[i].Value != other.scalars[i].Value {
			return false
		}
	}
	return true
}
