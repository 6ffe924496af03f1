// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float32 tensor used by the optim package.
//
// # Overview
//
// This package provides:
//   - Tensor: a flat row-major float32 buffer with a fixed Shape
//   - Constructors: Zeros, Full, Scalar, FromSlice
//   - The elementwise operations the update rules are written in terms of
//
// # Basic Usage
//
//	import "github.com/born-ml/descent/tensor"
//
//	func main() {
//	    w, err := tensor.FromSlice([]float32{0.1, -0.2, 0.3}, tensor.Shape{3})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    g := tensor.Full(tensor.Shape{3}, 0.5)
//	    step := tensor.Scale(0.01, g)
//	    next := tensor.Sub(w, step)
//	    _ = next
//	}
//
// Operations return fresh tensors; in-place mutation happens only through
// CopyFrom, Zero and the Data slice.
package tensor
