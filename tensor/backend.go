// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/sepnet/internal/tensor"

// Conv2DParams configures a 2D convolution: stride, zero padding, dilation
// and channel groups. Zero values for Stride, Dilation and Groups mean 1.
type Conv2DParams = tensor.Conv2DParams

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: pure Go, gonum BLAS for matrix products and im2col convolutions
//
// Example:
//
//	import (
//	    "github.com/born-ml/sepnet/backend/cpu"
//	    "github.com/born-ml/sepnet/tensor"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend interface {
	// Element-wise binary operations with broadcasting.
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Sub(a, b *RawTensor) *RawTensor // Element-wise subtraction.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.
	Div(a, b *RawTensor) *RawTensor // Element-wise division.

	// Scalar operations.
	AddScalar(x *RawTensor, scalar float32) *RawTensor // Add scalar.
	MulScalar(x *RawTensor, scalar float32) *RawTensor // Multiply by scalar.

	// Math operations (element-wise).
	Exp(x *RawTensor) *RawTensor  // Exponential.
	Log(x *RawTensor) *RawTensor  // Natural logarithm.
	Sqrt(x *RawTensor) *RawTensor // Square root.
	ReLU(x *RawTensor) *RawTensor // max(0, x).

	// Matrix operations.
	MatMul(a, b *RawTensor) *RawTensor // (M, K) @ (K, N) -> (M, N).

	// Convolutional operations.
	Conv2D(input, kernel *RawTensor, params Conv2DParams) *RawTensor // Grouped, dilated 2D convolution.
	AdaptiveAvgPool2D(input *RawTensor, outH, outW int) *RawTensor   // Average pooling to a fixed size.

	// Normalization.
	ChannelMoments(input *RawTensor) (mean, variance *RawTensor)                         // Per-channel mean and biased variance.
	BatchNorm2D(input, mean, variance, weight, bias *RawTensor, eps float32) *RawTensor // Per-channel affine normalization.

	// Activation functions.
	Softmax(x *RawTensor, dim int) *RawTensor    // Softmax along dimension.
	LogSoftmax(x *RawTensor, dim int) *RawTensor // Log-softmax along dimension.

	// Reduction operations.
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // Sum along dimension.
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // Mean along dimension.

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor // Reshape tensor.
	Transpose(t *RawTensor, axes ...int) *RawTensor  // Transpose dimensions.

	// Metadata.
	Name() string   // Backend name (e.g., "CPU").
	Device() Device // Device type.
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
