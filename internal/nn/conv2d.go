package nn

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/born-ml/sepnet/internal/tensor"
)

// Conv2DConfig describes a 2D convolution layer.
//
// Zero Stride, Dilation and Groups mean 1. KernelSize is square.
type Conv2DConfig struct {
	InChannels  int
	OutChannels int
	KernelSize  int
	Stride      int
	Padding     int
	Dilation    int
	Groups      int
	Bias        bool
}

// Conv2D is a 2D convolutional layer with optional stride, padding,
// dilation and channel groups.
//
// Input shape:  [batch, in_channels, height, width]
// Weight shape: [out_channels, in_channels/groups, k, k]
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, out_h, out_w]
//
//	out_h = (height + 2*padding - dilation*(k-1) - 1) / stride + 1
//
// Example:
//
//	// 32 -> 64 channels, 3x3, stride 2, dilation 2, no bias
//	conv := nn.NewConv2D(nn.Conv2DConfig{
//	    InChannels: 32, OutChannels: 64, KernelSize: 3,
//	    Stride: 2, Dilation: 2,
//	}, backend, rng)
type Conv2D[B tensor.Backend] struct {
	cfg    Conv2DConfig
	params tensor.Conv2DParams

	weight *Parameter[B] // [out_channels, in_channels/groups, k, k]
	bias   *Parameter[B] // [out_channels] or nil

	backend B
}

// NewConv2D creates a 2D convolution with PyTorch default initialization:
// weight and bias drawn from U(-1/sqrt(fan_in), 1/sqrt(fan_in)) with
// fan_in = in_channels/groups * k * k. A nil rng uses the global source.
//
// Panics on non-positive channels or kernel size, or channel counts not
// divisible by groups.
func NewConv2D[B tensor.Backend](cfg Conv2DConfig, backend B, rng *rand.Rand) *Conv2D[B] {
	if cfg.InChannels <= 0 || cfg.OutChannels <= 0 {
		panic(fmt.Sprintf("conv2d: invalid channels in=%d, out=%d", cfg.InChannels, cfg.OutChannels))
	}
	if cfg.KernelSize <= 0 {
		panic(fmt.Sprintf("conv2d: invalid kernel size %d", cfg.KernelSize))
	}

	params := tensor.Conv2DParams{
		Stride:   cfg.Stride,
		Padding:  cfg.Padding,
		Dilation: cfg.Dilation,
		Groups:   cfg.Groups,
	}.Normalize()
	cfg.Stride, cfg.Dilation, cfg.Groups = params.Stride, params.Dilation, params.Groups

	if cfg.InChannels%cfg.Groups != 0 || cfg.OutChannels%cfg.Groups != 0 {
		panic(fmt.Sprintf("conv2d: channels in=%d out=%d not divisible by groups=%d",
			cfg.InChannels, cfg.OutChannels, cfg.Groups))
	}

	inPerGroup := cfg.InChannels / cfg.Groups
	fanIn := inPerGroup * cfg.KernelSize * cfg.KernelSize

	weightShape := tensor.Shape{cfg.OutChannels, inPerGroup, cfg.KernelSize, cfg.KernelSize}
	weight := NewParameter("weight", KaimingUniform(fanIn, weightShape, backend, rng))

	var bias *Parameter[B]
	if cfg.Bias {
		bias = NewParameter("bias", KaimingUniform(fanIn, tensor.Shape{cfg.OutChannels}, backend, rng))
	}

	return &Conv2D[B]{
		cfg:     cfg,
		params:  params,
		weight:  weight,
		bias:    bias,
		backend: backend,
	}
}

// Forward performs the convolution.
//
// Input: [batch, in_channels, height, width]
// Output: [batch, out_channels, out_h, out_w].
func (c *Conv2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: expected 4D input [N,C,H,W], got %dD", len(inputShape)))
	}
	if inputShape[1] != c.cfg.InChannels {
		panic(fmt.Sprintf("conv2d: input channels %d != expected %d", inputShape[1], c.cfg.InChannels))
	}

	outputRaw := c.backend.Conv2D(input.Raw(), c.weight.Tensor().Raw(), c.params)
	output := tensor.New[float32, B](outputRaw, c.backend)

	if c.bias != nil {
		output = output.Add(c.bias.Tensor().Reshape(1, c.cfg.OutChannels, 1, 1))
	}

	return output
}

// Parameters returns [weight] or [weight, bias].
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	if c.bias != nil {
		return []*Parameter[B]{c.weight, c.bias}
	}
	return []*Parameter[B]{c.weight}
}

// StateDict returns the weight and, if present, the bias.
func (c *Conv2D[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := map[string]*tensor.RawTensor{"weight": c.weight.Tensor().Raw()}
	if c.bias != nil {
		stateDict["bias"] = c.bias.Tensor().Raw()
	}
	return stateDict
}

// LoadStateDict loads weight and bias.
func (c *Conv2D[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	dst := map[string]*tensor.Tensor[float32, B]{"weight": c.weight.Tensor()}
	if c.bias != nil {
		dst["bias"] = c.bias.Tensor()
	}
	return loadLeafStateDict(stateDict, dst)
}

// Weight returns the weight parameter.
func (c *Conv2D[B]) Weight() *Parameter[B] {
	return c.weight
}

// Bias returns the bias parameter, or nil.
func (c *Conv2D[B]) Bias() *Parameter[B] {
	return c.bias
}

// Config returns the layer configuration with defaults applied.
func (c *Conv2D[B]) Config() Conv2DConfig {
	return c.cfg
}

// OutputSize computes output spatial dimensions for a given input size.
func (c *Conv2D[B]) OutputSize(inputH, inputW int) [2]int {
	return [2]int{
		c.params.OutputSize(inputH, c.cfg.KernelSize),
		c.params.OutputSize(inputW, c.cfg.KernelSize),
	}
}

// String returns a PyTorch-style description, listing only non-default options.
func (c *Conv2D[B]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conv2D(%d, %d, kernel_size=(%d, %d)", c.cfg.InChannels, c.cfg.OutChannels, c.cfg.KernelSize, c.cfg.KernelSize)
	if c.cfg.Stride != 1 {
		fmt.Fprintf(&b, ", stride=(%d, %d)", c.cfg.Stride, c.cfg.Stride)
	}
	if c.cfg.Padding != 0 {
		fmt.Fprintf(&b, ", padding=(%d, %d)", c.cfg.Padding, c.cfg.Padding)
	}
	if c.cfg.Dilation != 1 {
		fmt.Fprintf(&b, ", dilation=(%d, %d)", c.cfg.Dilation, c.cfg.Dilation)
	}
	if c.cfg.Groups != 1 {
		fmt.Fprintf(&b, ", groups=%d", c.cfg.Groups)
	}
	if !c.cfg.Bias {
		b.WriteString(", bias=False")
	}
	b.WriteString(")")
	return b.String()
}
