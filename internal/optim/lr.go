package optim

import (
	"github.com/chewxy/math32"
)

// LearningRate is a mutable scalar cell holding an optimizer's base rate.
//
// The cell is owned by the training loop and passed by reference into the
// optimizer at construction, so an external schedule (see Anneal) and the
// optimizer observe the same value. Nothing inside GetUpdates ever writes
// the cell.
type LearningRate struct {
	value float32
}

// NewLearningRate creates a learning-rate cell with an initial value.
func NewLearningRate(value float32) *LearningRate {
	return &LearningRate{value: value}
}

// Value returns the current rate.
func (lr *LearningRate) Value() float32 {
	return lr.value
}

// Set replaces the current rate.
func (lr *LearningRate) Set(value float32) {
	lr.value = value
}

// validLR reports whether v is usable as a base learning rate.
func validLR(v float32) bool {
	return v > 0 && !math32.IsInf(v, 0) && !math32.IsNaN(v)
}
