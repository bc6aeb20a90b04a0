// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/sepnet/internal/nn"
	"github.com/born-ml/sepnet/tensor"
)

// Default batch normalization hyperparameters.
const (
	DefaultBatchNormEps      = nn.DefaultBatchNormEps
	DefaultBatchNormMomentum = nn.DefaultBatchNormMomentum
)

// Layers

// Conv2DConfig describes a 2D convolution layer.
type Conv2DConfig = nn.Conv2DConfig

// Conv2D represents a 2D convolutional layer with stride, padding, dilation and groups.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer.
//
// Example:
//
//	backend := cpu.New()
//	conv := nn.NewConv2D(nn.Conv2DConfig{
//	    InChannels: 16, OutChannels: 16, KernelSize: 3,
//	    Stride: 2, Dilation: 2, Groups: 16,
//	}, backend, rng)
func NewConv2D[B tensor.Backend](cfg Conv2DConfig, backend B, rng *rand.Rand) *Conv2D[B] {
	return nn.NewConv2D(cfg, backend, rng)
}

// DepthwiseSeparableConv is a depthwise convolution followed by a 1x1 pointwise convolution.
type DepthwiseSeparableConv[B tensor.Backend] = nn.DepthwiseSeparableConv[B]

// NewDepthwiseSeparableConv creates a depthwise separable convolution.
//
// Example:
//
//	conv := nn.NewDepthwiseSeparableConv(3, 16, 3, 1, 1, false, backend, rng) // 3 -> 16, 3x3, padding=1
func NewDepthwiseSeparableConv[B tensor.Backend](
	nin, nout int,
	kernelSize, padding, dilation int,
	bias bool,
	backend B,
	rng *rand.Rand,
) *DepthwiseSeparableConv[B] {
	return nn.NewDepthwiseSeparableConv(nin, nout, kernelSize, padding, dilation, bias, backend, rng)
}

// BatchNorm2D represents per-channel batch normalization.
type BatchNorm2D[B tensor.Backend] = nn.BatchNorm2D[B]

// NewBatchNorm2D creates a batch norm layer over numFeatures channels.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, eps, momentum float32, backend B) *BatchNorm2D[B] {
	return nn.NewBatchNorm2D(numFeatures, eps, momentum, backend)
}

// Dropout randomly zeroes elements during training.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a dropout layer with drop probability p.
//
// Example:
//
//	drop := nn.NewDropout[*cpu.Backend](0.1, rng)
func NewDropout[B tensor.Backend](p float32, rng *rand.Rand) *Dropout[B] {
	return nn.NewDropout[B](p, rng)
}

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with PyTorch default initialization.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(64, 10, backend, rng)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B, rng *rand.Rand) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend, rng)
}

// Pooling

// AdaptiveAvgPool2D averages each channel down to a fixed spatial size.
type AdaptiveAvgPool2D[B tensor.Backend] = nn.AdaptiveAvgPool2D[B]

// NewAdaptiveAvgPool2D creates an adaptive average pool.
func NewAdaptiveAvgPool2D[B tensor.Backend](outH, outW int, backend B) *AdaptiveAvgPool2D[B] {
	return nn.NewAdaptiveAvgPool2D(outH, outW, backend)
}

// NewGlobalAvgPool2D creates an adaptive average pool with output size 1x1.
func NewGlobalAvgPool2D[B tensor.Backend](backend B) *AdaptiveAvgPool2D[B] {
	return nn.NewGlobalAvgPool2D(backend)
}

// Flatten collapses every dimension after the first.
type Flatten[B tensor.Backend] = nn.Flatten[B]

// NewFlatten creates a Flatten layer.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return nn.NewFlatten[B]()
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
//
// Example:
//
//	relu := nn.NewReLU[*cpu.Backend]()
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// LogSoftmax computes log(softmax(x)) along a dimension.
type LogSoftmax[B tensor.Backend] = nn.LogSoftmax[B]

// NewLogSoftmax creates a log-softmax over dim.
func NewLogSoftmax[B tensor.Backend](dim int) *LogSoftmax[B] {
	return nn.NewLogSoftmax[B](dim)
}

// Containers

// Sequential chains modules, feeding each output into the next.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new sequential container.
//
// Example:
//
//	model := nn.NewSequential[*cpu.Backend](
//	    nn.NewLinear(64, 32, backend, rng),
//	    nn.NewReLU[*cpu.Backend](),
//	    nn.NewLinear(32, 10, backend, rng),
//	)
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Initialization

// KaimingUniform draws from U(-1/sqrt(fanIn), 1/sqrt(fanIn)), the PyTorch
// default for Conv2d and Linear weights.
func KaimingUniform[B tensor.Backend](fanIn int, shape tensor.Shape, backend B, rng *rand.Rand) *tensor.Tensor[float32, B] {
	return nn.KaimingUniform(fanIn, shape, backend, rng)
}

// Zeros creates a tensor filled with zeros.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Ones(shape, backend)
}
