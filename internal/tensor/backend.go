package tensor

import "fmt"

// Conv2DParams configures a 2D convolution.
//
// Zero values for Stride, Dilation and Groups are read as 1, so
// Conv2DParams{Padding: 1} is a plain "same" 3x3 convolution.
type Conv2DParams struct {
	Stride   int // Step between output positions.
	Padding  int // Zero padding added to each spatial border.
	Dilation int // Spacing between kernel taps.
	Groups   int // Number of channel groups; Groups == C_in gives a depthwise conv.
}

// Normalize returns a copy with defaults applied.
// Panics on negative padding or non-positive stride, dilation or groups.
func (p Conv2DParams) Normalize() Conv2DParams {
	if p.Stride == 0 {
		p.Stride = 1
	}
	if p.Dilation == 0 {
		p.Dilation = 1
	}
	if p.Groups == 0 {
		p.Groups = 1
	}
	if p.Stride < 0 || p.Dilation < 0 || p.Groups < 0 || p.Padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid params %+v", p))
	}
	return p
}

// OutputSize returns the output extent along one spatial axis.
func (p Conv2DParams) OutputSize(in, kernel int) int {
	p = p.Normalize()
	return (in+2*p.Padding-p.Dilation*(kernel-1)-1)/p.Stride + 1
}

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: pure Go with gonum BLAS for matrix products
type Backend interface {
	// Element-wise binary operations with NumPy broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations.
	AddScalar(x *RawTensor, scalar float32) *RawTensor
	MulScalar(x *RawTensor, scalar float32) *RawTensor

	// Math operations (element-wise).
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	ReLU(x *RawTensor) *RawTensor

	// Matrix operations: (M, K) @ (K, N) → (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Convolutional operations on [N, C, H, W] tensors.
	Conv2D(input, kernel *RawTensor, params Conv2DParams) *RawTensor
	AdaptiveAvgPool2D(input *RawTensor, outH, outW int) *RawTensor

	// Normalization on [N, C, H, W] tensors.
	// ChannelMoments returns the per-channel mean and biased variance over N, H and W.
	ChannelMoments(input *RawTensor) (mean, variance *RawTensor)
	// BatchNorm2D computes weight * (x - mean) / sqrt(variance + eps) + bias per channel.
	BatchNorm2D(input, mean, variance, weight, bias *RawTensor, eps float32) *RawTensor

	// Activation functions along a dimension.
	Softmax(x *RawTensor, dim int) *RawTensor
	LogSoftmax(x *RawTensor, dim int) *RawTensor

	// Reduction operations.
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
