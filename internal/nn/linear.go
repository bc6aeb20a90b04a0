package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/sepnet/internal/tensor"
)

// Linear implements a fully connected layer: y = x @ W.T + b.
//
// Weight shape: [out_features, in_features]
// Bias shape:   [out_features]
//
// Both are initialized from U(-1/sqrt(in_features), 1/sqrt(in_features)),
// matching PyTorch's nn.Linear.
//
// Example:
//
//	fc := nn.NewLinear(64, 10, backend, rng)
//	logits := fc.Forward(features) // [batch, 64] -> [batch, 10]
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int

	weight *Parameter[B] // [out_features, in_features]
	bias   *Parameter[B] // [out_features]
}

// NewLinear creates a new Linear layer. A nil rng uses the global source.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B, rng *rand.Rand) *Linear[B] {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("linear: invalid features in=%d, out=%d", inFeatures, outFeatures))
	}
	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", KaimingUniform(inFeatures, tensor.Shape{outFeatures, inFeatures}, backend, rng)),
		bias:        NewParameter("bias", KaimingUniform(inFeatures, tensor.Shape{outFeatures}, backend, rng)),
	}
}

// Forward computes y = x @ W.T + b.
//
// Input: [batch, in_features]
// Output: [batch, out_features].
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("linear: expected 2D input [batch, features], got %dD", len(shape)))
	}
	if shape[1] != l.inFeatures {
		panic(fmt.Sprintf("linear: input features %d != expected %d", shape[1], l.inFeatures))
	}

	output := input.MatMul(l.weight.Tensor().Transpose())
	return output.Add(l.bias.Tensor().Reshape(1, l.outFeatures))
}

// Parameters returns [weight, bias].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// StateDict returns weight and bias.
func (l *Linear[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": l.weight.Tensor().Raw(),
		"bias":   l.bias.Tensor().Raw(),
	}
}

// LoadStateDict loads weight and bias.
func (l *Linear[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return loadLeafStateDict(stateDict, map[string]*tensor.Tensor[float32, B]{
		"weight": l.weight.Tensor(),
		"bias":   l.bias.Tensor(),
	})
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

func (l *Linear[B]) String() string {
	return fmt.Sprintf("Linear(in_features=%d, out_features=%d, bias=True)", l.inFeatures, l.outFeatures)
}
