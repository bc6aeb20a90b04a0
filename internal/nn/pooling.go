package nn

import (
	"fmt"

	"github.com/born-ml/sepnet/internal/tensor"
)

// AdaptiveAvgPool2D averages each channel down to a fixed spatial size.
//
// Output bin i along an input axis of length L covers
// [floor(i*L/out), ceil((i+1)*L/out)), so bins may overlap when L is not a
// multiple of out. With output size 1x1 this is global average pooling.
//
// Input:  [N, C, H, W]
// Output: [N, C, outH, outW]
type AdaptiveAvgPool2D[B tensor.Backend] struct {
	outH, outW int
	backend    B
}

// NewAdaptiveAvgPool2D creates an adaptive average pool with the given output size.
func NewAdaptiveAvgPool2D[B tensor.Backend](outH, outW int, backend B) *AdaptiveAvgPool2D[B] {
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("adaptive_avg_pool2d: invalid output size %dx%d", outH, outW))
	}
	return &AdaptiveAvgPool2D[B]{outH: outH, outW: outW, backend: backend}
}

// NewGlobalAvgPool2D creates an adaptive average pool with output size 1x1.
func NewGlobalAvgPool2D[B tensor.Backend](backend B) *AdaptiveAvgPool2D[B] {
	return NewAdaptiveAvgPool2D(1, 1, backend)
}

// Forward pools the input.
func (p *AdaptiveAvgPool2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if len(input.Shape()) != 4 {
		panic(fmt.Sprintf("adaptive_avg_pool2d: expected 4D input [N,C,H,W], got %dD", len(input.Shape())))
	}
	return tensor.New[float32, B](p.backend.AdaptiveAvgPool2D(input.Raw(), p.outH, p.outW), p.backend)
}

// OutputSize returns the configured output size.
func (p *AdaptiveAvgPool2D[B]) OutputSize() [2]int {
	return [2]int{p.outH, p.outW}
}

// Parameters returns nil.
func (p *AdaptiveAvgPool2D[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns an empty map.
func (p *AdaptiveAvgPool2D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict accepts only an empty state dict.
func (p *AdaptiveAvgPool2D[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return loadLeafStateDict(stateDict, map[string]*tensor.Tensor[float32, B]{})
}

func (p *AdaptiveAvgPool2D[B]) String() string {
	return fmt.Sprintf("AdaptiveAvgPool2D(output_size=(%d, %d))", p.outH, p.outW)
}

// Flatten collapses every dimension after the first: [N, d1, d2, ...] -> [N, d1*d2*...].
//
// The result is a view sharing the input's buffer.
type Flatten[B tensor.Backend] struct{}

// NewFlatten creates a Flatten layer.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return &Flatten[B]{}
}

// Forward flattens the input.
func (f *Flatten[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) < 1 {
		panic("flatten: expected at least 1D input")
	}
	return input.Reshape(shape[0], -1)
}

// Parameters returns nil.
func (f *Flatten[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns an empty map.
func (f *Flatten[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict accepts only an empty state dict.
func (f *Flatten[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return loadLeafStateDict(stateDict, map[string]*tensor.Tensor[float32, B]{})
}

func (f *Flatten[B]) String() string {
	return "Flatten()"
}
