// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks for
// convolutional image classifiers.
//
// # Overview
//
// The package offers PyTorch-like modules:
//   - Convolutions: Conv2D (stride, padding, dilation, groups), DepthwiseSeparableConv
//   - Normalization: BatchNorm2D
//   - Regularization: Dropout
//   - Pooling: AdaptiveAvgPool2D, Flatten
//   - Dense: Linear
//   - Activations: ReLU, LogSoftmax
//   - Containers: Sequential
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/sepnet/backend/cpu"
//	    "github.com/born-ml/sepnet/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    rng := rand.New(rand.NewSource(42))
//
//	    block := nn.NewSequential[*cpu.Backend](
//	        nn.NewDepthwiseSeparableConv(3, 16, 3, 1, 1, false, backend, rng),
//	        nn.NewBatchNorm2D(16, nn.DefaultBatchNormEps, nn.DefaultBatchNormMomentum, backend),
//	        nn.NewReLU[*cpu.Backend](),
//	        nn.NewDropout[*cpu.Backend](0.1, rng),
//	    )
//	    nn.SetTraining[*cpu.Backend](block, false)
//	}
//
// # Training and Evaluation
//
// BatchNorm2D and Dropout start in training mode. SetTraining switches a
// module tree in one call. In evaluation mode outputs are deterministic.
//
// # State Dicts
//
// StateDict keys follow PyTorch naming ("0.depthwise.weight",
// "1.running_mean"), so weights can be exchanged with PyTorch exports after
// conversion to float32 raw tensors.
package nn
