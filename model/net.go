// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/born-ml/sepnet/nn"
	"github.com/born-ml/sepnet/tensor"
)

// Net is the three-block depthwise separable classifier.
//
// Architecture (default config, [N, 3, 32, 32] input):
//
//	convblock1:
//	  DSConv(3→32, 3x3, p=1)                 -> [N, 32, 32, 32]
//	  Conv(32→32, 3x3, p=1)                  -> [N, 32, 32, 32]
//	  Conv(32→32, 3x3, p=1)                  -> [N, 32, 32, 32]
//	  Conv(32→64, 3x3, stride=2, dilation=2) -> [N, 64, 14, 14]
//	convblock2:
//	  DSConv(64→128, 3x3, p=1, dilation=2)   -> [N, 128, 12, 12]
//	  Conv(128→64, 1x1)                      -> [N, 64, 12, 12]
//	  Conv(64→64, 3x3, dilation=2)           -> [N, 64, 8, 8]
//	convblock3:
//	  DSConv(64→128, 3x3, p=1)               -> [N, 128, 8, 8]
//	  Conv(128→64, 3x3)                      -> [N, 64, 6, 6]
//	  Conv(64→64, 1x1, stride=2, p=1)        -> [N, 64, 4, 4]
//	gap                                      -> [N, 64, 1, 1]
//	flatten                                  -> [N, 64]
//	fc: Linear(64→10)                        -> [N, 10]
//	log_softmax(dim=-1)
//
// Every convolution is followed by BatchNorm2D, ReLU and Dropout.
// Net starts in training mode, like a freshly built PyTorch module.
type Net[B tensor.Backend] struct {
	cfg      Config
	training bool

	convblock1 *nn.Sequential[B]
	convblock2 *nn.Sequential[B]
	convblock3 *nn.Sequential[B]
	gap        *nn.AdaptiveAvgPool2D[B]
	flatten    *nn.Flatten[B]
	fc         *nn.Linear[B]
	logSoftmax *nn.LogSoftmax[B]
}

// Compile-time check that Net is a module container.
var _ nn.Container[tensor.Backend] = (*Net[tensor.Backend])(nil)

// New builds a Net on backend.
//
// Weights use PyTorch default initialization drawn from a generator seeded
// with cfg.Seed; the same generator drives dropout masks. Two nets built with
// the same non-zero seed have identical weights.
func New[B tensor.Backend](cfg Config, backend B) (*Net[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	//nolint:gosec // initialization and dropout are not security sensitive
	rng := rand.New(rand.NewSource(seed))

	b := &builder[B]{cfg: cfg, backend: backend, rng: rng}

	net := &Net[B]{
		cfg:      cfg,
		training: true,

		// CONVOLUTION BLOCK 1
		convblock1: b.block(
			b.separable(cfg.InChannels, 32, 1, 1),
			b.conv(nn.Conv2DConfig{InChannels: 32, OutChannels: 32, KernelSize: 3, Padding: 1}),
			b.conv(nn.Conv2DConfig{InChannels: 32, OutChannels: 32, KernelSize: 3, Padding: 1}),
			b.conv(nn.Conv2DConfig{InChannels: 32, OutChannels: 64, KernelSize: 3, Stride: 2, Dilation: 2}),
		),

		// CONVOLUTION BLOCK 2
		convblock2: b.block(
			b.separable(64, 128, 1, 2),
			b.conv(nn.Conv2DConfig{InChannels: 128, OutChannels: 64, KernelSize: 1}),
			b.conv(nn.Conv2DConfig{InChannels: 64, OutChannels: 64, KernelSize: 3, Dilation: 2}),
		),

		// CONVOLUTION BLOCK 3
		convblock3: b.block(
			b.separable(64, 128, 1, 1),
			b.conv(nn.Conv2DConfig{InChannels: 128, OutChannels: 64, KernelSize: 3}),
			b.conv(nn.Conv2DConfig{InChannels: 64, OutChannels: 64, KernelSize: 1, Stride: 2, Padding: 1}),
		),

		gap:        nn.NewGlobalAvgPool2D(backend),
		flatten:    nn.NewFlatten[B](),
		fc:         nn.NewLinear(64, cfg.NumClasses, backend, rng),
		logSoftmax: nn.NewLogSoftmax[B](-1),
	}
	return net, nil
}

// builder creates the convolution stages of Net.
type builder[B tensor.Backend] struct {
	cfg     Config
	backend B
	rng     *rand.Rand
}

// stage pairs a convolution with its output channel count.
type stage[B tensor.Backend] struct {
	conv     nn.Module[B]
	channels int
}

func (b *builder[B]) separable(nin, nout, padding, dilation int) stage[B] {
	return stage[B]{
		conv:     nn.NewDepthwiseSeparableConv(nin, nout, 3, padding, dilation, false, b.backend, b.rng),
		channels: nout,
	}
}

func (b *builder[B]) conv(cfg nn.Conv2DConfig) stage[B] {
	return stage[B]{
		conv:     nn.NewConv2D(cfg, b.backend, b.rng),
		channels: cfg.OutChannels,
	}
}

// block expands every stage into conv · BatchNorm2D · ReLU · Dropout.
func (b *builder[B]) block(stages ...stage[B]) *nn.Sequential[B] {
	seq := nn.NewSequential[B]()
	for _, s := range stages {
		seq.Add(s.conv)
		seq.Add(nn.NewBatchNorm2D(s.channels, b.cfg.BatchNormEps, b.cfg.BatchNormMomentum, b.backend))
		seq.Add(nn.NewReLU[B]())
		seq.Add(nn.NewDropout[B](b.cfg.Dropout, b.rng))
	}
	return seq
}

// Forward computes per-class log-probabilities.
//
// Parameters:
//   - input: batch of images with shape [N, in_channels, H, W]; the reference
//     geometry is 32x32
//
// Returns:
//   - log-probabilities with shape [N, num_classes]; exp of each row sums to 1
func (n *Net[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("net: expected 4D input [N,C,H,W], got %dD", len(shape)))
	}
	if shape[1] != n.cfg.InChannels {
		panic(fmt.Sprintf("net: input channels %d != expected %d", shape[1], n.cfg.InChannels))
	}

	x := n.convblock1.Forward(input)
	x = n.convblock2.Forward(x)
	x = n.convblock3.Forward(x)
	x = n.gap.Forward(x)     // [N, 64, 1, 1]
	x = n.flatten.Forward(x) // [N, 64]
	x = n.fc.Forward(x)      // [N, num_classes]
	return n.logSoftmax.Forward(x)
}

// Predict returns the most likely class of every sample in the batch.
func (n *Net[B]) Predict(input *tensor.Tensor[float32, B]) []int {
	return n.Forward(input).Argmax(-1)
}

// Train switches batch norm and dropout to training behavior.
func (n *Net[B]) Train() {
	n.SetTraining(true)
}

// Eval switches batch norm to running statistics and disables dropout.
func (n *Net[B]) Eval() {
	n.SetTraining(false)
}

// SetTraining sets the mode of every layer.
func (n *Net[B]) SetTraining(training bool) {
	n.training = training
	for _, child := range n.Children() {
		nn.SetTraining(child.Module, training)
	}
}

// Training reports whether the network is in training mode.
func (n *Net[B]) Training() bool {
	return n.training
}

// Children returns the top-level layers in forward order.
func (n *Net[B]) Children() []nn.Named[B] {
	return []nn.Named[B]{
		{Name: "convblock1", Module: n.convblock1},
		{Name: "convblock2", Module: n.convblock2},
		{Name: "convblock3", Module: n.convblock3},
		{Name: "gap", Module: n.gap},
		{Name: "flatten", Module: n.flatten},
		{Name: "fc", Module: n.fc},
		{Name: "log_softmax", Module: n.logSoftmax},
	}
}

// Parameters returns all trainable parameters in forward order.
func (n *Net[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, child := range n.Children() {
		params = append(params, child.Module.Parameters()...)
	}
	return params
}

// NumParameters returns the number of trainable scalars.
func (n *Net[B]) NumParameters() int {
	return nn.CountParameters[B](n)
}

// StateDict returns parameters and batch norm buffers under PyTorch-style
// keys such as "convblock1.0.depthwise.weight" and "convblock2.1.running_var".
func (n *Net[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for _, child := range n.Children() {
		for key, raw := range child.Module.StateDict() {
			stateDict[child.Name+"."+key] = raw
		}
	}
	return stateDict
}

// LoadStateDict copies weights and buffers from stateDict.
// Every key must be present with a matching shape; extra keys are rejected.
func (n *Net[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	routed := make(map[string]map[string]*tensor.RawTensor)
	children := n.Children()
	for _, child := range children {
		routed[child.Name] = make(map[string]*tensor.RawTensor)
	}

	for key, raw := range stateDict {
		name, rest, ok := strings.Cut(key, ".")
		sub, known := routed[name]
		if !ok || !known {
			return fmt.Errorf("load state dict: unexpected key %q", key)
		}
		sub[rest] = raw
	}

	for _, child := range children {
		if err := child.Module.LoadStateDict(routed[child.Name]); err != nil {
			return fmt.Errorf("load state dict: %s: %w", child.Name, err)
		}
	}
	return nil
}

// Summary runs input through the network in evaluation mode and lists every
// layer's output shape and parameter count. The previous mode is restored.
func (n *Net[B]) Summary(input *tensor.Tensor[float32, B]) *nn.Summary {
	training := n.training
	n.Eval()
	defer n.SetTraining(training)

	return nn.Summarize[B](n, input)
}

// Config returns the configuration the network was built with.
func (n *Net[B]) Config() Config {
	return n.cfg
}

// String returns a PyTorch-style description of the architecture.
func (n *Net[B]) String() string {
	var b strings.Builder
	b.WriteString("Net(\n")
	for _, child := range n.Children() {
		desc := strings.ReplaceAll(fmt.Sprint(child.Module), "\n", "\n  ")
		fmt.Fprintf(&b, "  (%s): %s\n", child.Name, desc)
	}
	b.WriteString(")")
	return b.String()
}
