package tensor

import (
	"fmt"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/blas/blas32"
)

// Elementwise operations used by the optimizer update rules. Each allocates
// a fresh result tensor; in-place mutation happens only through CopyFrom and
// Zero. Dense scale/axpy kernels are delegated to gonum's float32 BLAS.

func checkSameShape(op string, a, b *Tensor) {
	if !a.shape.Equal(b.shape) {
		panic(fmt.Sprintf("tensor: %s shape mismatch: %v vs %v", op, a.shape, b.shape))
	}
}

func (t *Tensor) blasVec() blas32.Vector {
	return blas32.Vector{N: len(t.data), Inc: 1, Data: t.data}
}

// Add returns a + b.
func Add(a, b *Tensor) *Tensor {
	checkSameShape("add", a, b)
	out := a.Clone()
	blas32.Axpy(1, b.blasVec(), out.blasVec())
	return out
}

// Sub returns a - b.
func Sub(a, b *Tensor) *Tensor {
	checkSameShape("sub", a, b)
	out := a.Clone()
	blas32.Axpy(-1, b.blasVec(), out.blasVec())
	return out
}

// Mul returns the elementwise product a * b.
func Mul(a, b *Tensor) *Tensor {
	checkSameShape("mul", a, b)
	out := Zeros(a.shape)
	for i := range out.data {
		out.data[i] = a.data[i] * b.data[i]
	}
	return out
}

// Scale returns alpha * a.
func Scale(alpha float32, a *Tensor) *Tensor {
	out := a.Clone()
	blas32.Scal(alpha, out.blasVec())
	return out
}

// AddScaled returns a + alpha*b.
func AddScaled(a *Tensor, alpha float32, b *Tensor) *Tensor {
	checkSameShape("addscaled", a, b)
	out := a.Clone()
	blas32.Axpy(alpha, b.blasVec(), out.blasVec())
	return out
}

// AddScalar returns a + c for scalar c.
func AddScalar(a *Tensor, c float32) *Tensor {
	out := Zeros(a.shape)
	for i := range out.data {
		out.data[i] = a.data[i] + c
	}
	return out
}

// Square returns the elementwise square of a.
func Square(a *Tensor) *Tensor {
	out := Zeros(a.shape)
	for i := range out.data {
		out.data[i] = a.data[i] * a.data[i]
	}
	return out
}

// Sqrt returns the elementwise square root of a.
func Sqrt(a *Tensor) *Tensor {
	out := Zeros(a.shape)
	for i := range out.data {
		out.data[i] = math32.Sqrt(a.data[i])
	}
	return out
}

// Pow returns a raised elementwise to the power p.
func Pow(a *Tensor, p float32) *Tensor {
	out := Zeros(a.shape)
	for i := range out.data {
		out.data[i] = math32.Pow(a.data[i], p)
	}
	return out
}

// Div returns the elementwise quotient a / b.
func Div(a, b *Tensor) *Tensor {
	checkSameShape("div", a, b)
	out := Zeros(a.shape)
	for i := range out.data {
		out.data[i] = a.data[i] / b.data[i]
	}
	return out
}

// Maximum returns the elementwise maximum of a and b.
func Maximum(a, b *Tensor) *Tensor {
	checkSameShape("maximum", a, b)
	out := Zeros(a.shape)
	for i := range out.data {
		out.data[i] = math32.Max(a.data[i], b.data[i])
	}
	return out
}

// Abs returns the elementwise absolute value of a.
func Abs(a *Tensor) *Tensor {
	out := Zeros(a.shape)
	for i := range out.data {
		out.data[i] = math32.Abs(a.data[i])
	}
	return out
}

// Dot returns the dot product of a and b.
func Dot(a, b *Tensor) float32 {
	checkSameShape("dot", a, b)
	return blas32.Dot(a.blasVec(), b.blasVec())
}
