package nn

import (
	"fmt"

	"github.com/born-ml/sepnet/internal/tensor"
)

// ReLU applies max(0, x) element-wise.
//
// Example:
//
//	relu := nn.NewReLU[B]()
//	output := relu.Forward(input)
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward computes max(0, x).
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.ReLU()
}

// Parameters returns nil (ReLU has no trainable parameters).
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns an empty map.
func (r *ReLU[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict accepts only an empty state dict.
func (r *ReLU[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return loadLeafStateDict(stateDict, map[string]*tensor.Tensor[float32, B]{})
}

func (r *ReLU[B]) String() string {
	return "ReLU()"
}

// LogSoftmax computes log(softmax(x)) along a dimension in a numerically
// stable way: x - max - log(sum(exp(x - max))).
type LogSoftmax[B tensor.Backend] struct {
	dim int
}

// NewLogSoftmax creates a log-softmax over dim (negative counts from the end).
func NewLogSoftmax[B tensor.Backend](dim int) *LogSoftmax[B] {
	return &LogSoftmax[B]{dim: dim}
}

// Forward computes log-softmax along the configured dimension.
func (l *LogSoftmax[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.LogSoftmax(l.dim)
}

// Dim returns the configured dimension.
func (l *LogSoftmax[B]) Dim() int {
	return l.dim
}

// Parameters returns nil.
func (l *LogSoftmax[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns an empty map.
func (l *LogSoftmax[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict accepts only an empty state dict.
func (l *LogSoftmax[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return loadLeafStateDict(stateDict, map[string]*tensor.Tensor[float32, B]{})
}

func (l *LogSoftmax[B]) String() string {
	return fmt.Sprintf("LogSoftmax(dim=%d)", l.dim)
}
