package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/sepnet/internal/tensor"
)

// DepthwiseSeparableConv factors a k x k convolution into a per-channel
// (depthwise, groups = in_channels) spatial convolution followed by a 1x1
// pointwise convolution that mixes channels.
//
// Weights: depthwise [nin, 1, k, k], pointwise [nout, nin, 1, 1], so the
// layer holds nin*k*k + nout*nin parameters instead of nout*nin*k*k.
type DepthwiseSeparableConv[B tensor.Backend] struct {
	depthwise *Conv2D[B]
	pointwise *Conv2D[B]
}

// NewDepthwiseSeparableConv creates the two-stage convolution.
// The usual configuration is kernelSize 3, padding 1, dilation 1, no bias.
func NewDepthwiseSeparableConv[B tensor.Backend](
	nin, nout int,
	kernelSize, padding, dilation int,
	bias bool,
	backend B,
	rng *rand.Rand,
) *DepthwiseSeparableConv[B] {
	return &DepthwiseSeparableConv[B]{
		depthwise: NewConv2D(Conv2DConfig{
			InChannels:  nin,
			OutChannels: nin,
			KernelSize:  kernelSize,
			Padding:     padding,
			Dilation:    dilation,
			Groups:      nin,
			Bias:        bias,
		}, backend, rng),
		pointwise: NewConv2D(Conv2DConfig{
			InChannels:  nin,
			OutChannels: nout,
			KernelSize:  1,
			Bias:        bias,
		}, backend, rng),
	}
}

// Forward applies the depthwise then the pointwise convolution.
func (d *DepthwiseSeparableConv[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return d.pointwise.Forward(d.depthwise.Forward(input))
}

// Children returns the depthwise and pointwise stages.
func (d *DepthwiseSeparableConv[B]) Children() []Named[B] {
	return []Named[B]{
		{Name: "depthwise", Module: d.depthwise},
		{Name: "pointwise", Module: d.pointwise},
	}
}

// Parameters returns the parameters of both stages.
func (d *DepthwiseSeparableConv[B]) Parameters() []*Parameter[B] {
	return childParameters(d.Children())
}

// StateDict returns "depthwise.*" and "pointwise.*" entries.
func (d *DepthwiseSeparableConv[B]) StateDict() map[string]*tensor.RawTensor {
	return childStateDict(d.Children())
}

// LoadStateDict loads both stages.
func (d *DepthwiseSeparableConv[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return loadChildStateDict(d.Children(), stateDict)
}

// Depthwise returns the per-channel spatial convolution.
func (d *DepthwiseSeparableConv[B]) Depthwise() *Conv2D[B] {
	return d.depthwise
}

// Pointwise returns the 1x1 channel-mixing convolution.
func (d *DepthwiseSeparableConv[B]) Pointwise() *Conv2D[B] {
	return d.pointwise
}

// String returns a description of both stages.
func (d *DepthwiseSeparableConv[B]) String() string {
	return fmt.Sprintf("DepthwiseSeparableConv(\n  (depthwise): %s\n  (pointwise): %s\n)", d.depthwise, d.pointwise)
}
