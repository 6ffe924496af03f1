// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/descent/internal/tensor"

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// Tensor is a dense float32 tensor with row-major storage.
type Tensor = tensor.Tensor

// Zeros creates a tensor of the given shape filled with zeros.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Full creates a tensor of the given shape filled with value.
func Full(shape Shape, value float32) *Tensor {
	return tensor.Full(shape, value)
}

// Scalar creates a shape-{1} tensor holding a single value.
func Scalar(value float32) *Tensor {
	return tensor.Scalar(value)
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Add returns a + b.
func Add(a, b *Tensor) *Tensor { return tensor.Add(a, b) }

// Sub returns a - b.
func Sub(a, b *Tensor) *Tensor { return tensor.Sub(a, b) }

// Mul returns the elementwise product a * b.
func Mul(a, b *Tensor) *Tensor { return tensor.Mul(a, b) }

// Div returns the elementwise quotient a / b.
func Div(a, b *Tensor) *Tensor { return tensor.Div(a, b) }

// Scale returns alpha * a.
func Scale(alpha float32, a *Tensor) *Tensor { return tensor.Scale(alpha, a) }

// AddScaled returns a + alpha*b.
func AddScaled(a *Tensor, alpha float32, b *Tensor) *Tensor {
	return tensor.AddScaled(a, alpha, b)
}

// AddScalar returns a + c for scalar c.
func AddScalar(a *Tensor, c float32) *Tensor { return tensor.AddScalar(a, c) }

// Square returns the elementwise square of a.
func Square(a *Tensor) *Tensor { return tensor.Square(a) }

// Sqrt returns the elementwise square root of a.
func Sqrt(a *Tensor) *Tensor { return tensor.Sqrt(a) }

// Pow returns a raised elementwise to the power p.
func Pow(a *Tensor, p float32) *Tensor { return tensor.Pow(a, p) }

// Abs returns the elementwise absolute value of a.
func Abs(a *Tensor) *Tensor { return tensor.Abs(a) }

// Maximum returns the elementwise maximum of a and b.
func Maximum(a, b *Tensor) *Tensor { return tensor.Maximum(a, b) }

// Dot returns the dot product of a and b.
func Dot(a, b *Tensor) float32 { return tensor.Dot(a, b) }
