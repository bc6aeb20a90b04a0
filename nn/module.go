// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/sepnet/internal/nn"
	"github.com/born-ml/sepnet/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all trainable parameters
//   - StateDict: Export parameters and buffers
//   - LoadStateDict: Import parameters and buffers
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] = nn.Module[B]

// Container is a module composed of ordered, named children.
type Container[B tensor.Backend] = nn.Container[B]

// Named pairs a child module with its name inside a container.
type Named[B tensor.Backend] = nn.Named[B]

// ModeSetter is implemented by modules that behave differently during
// training and evaluation.
type ModeSetter = nn.ModeSetter

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NamedParameter is a parameter together with its dotted path.
type NamedParameter[B tensor.Backend] = nn.NamedParameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// SetTraining switches m and every module below it between training (true)
// and evaluation (false) behavior.
func SetTraining[B tensor.Backend](m Module[B], training bool) {
	nn.SetTraining(m, training)
}

// NamedParameters lists every parameter below m with its dotted path.
func NamedParameters[B tensor.Backend](m Module[B]) []NamedParameter[B] {
	return nn.NamedParameters(m)
}

// CountParameters returns the number of trainable scalars in m.
func CountParameters[B tensor.Backend](m Module[B]) int {
	return nn.CountParameters(m)
}

// Summary lists per-layer output shapes and parameter counts.
type Summary = nn.Summary

// LayerSummary describes one leaf module within a Summary.
type LayerSummary = nn.LayerSummary

// Summarize runs input through m and records every leaf module's output
// shape and parameter count.
//
// Example:
//
//	s := nn.Summarize[*cpu.Backend](block, tensor.Zeros[float32](tensor.Shape{1, 3, 32, 32}, backend))
//	fmt.Print(s)
func Summarize[B tensor.Backend](m Module[B], input *tensor.Tensor[float32, B]) *Summary {
	return nn.Summarize(m, input)
}
