// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the sepnet framework.
//
// # Overview
//
// Tensors are the fundamental data structure in sepnet. This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting for element-wise operations
//   - Zero-copy reshapes
//   - Convolution and normalization primitives on [N, C, H, W] tensors
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/sepnet/backend/cpu"
//	    "github.com/born-ml/sepnet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//
//	    z := x.Add(y)
//	    scores := x.MatMul(y.Transpose()) // [2, 2]
//	    _ = scores.LogSoftmax(-1)
//	}
//
// # Supported Data Types
//
// Tensors are generic over float32 and float64. The CPU backend computes in
// float32; float64 tensors can be created and inspected but backend operations
// on them panic.
//
// # Memory Layout
//
// Tensors are stored contiguously in row-major (C) order. Reshape returns a
// view sharing the same buffer; every other operation allocates its result.
package tensor
