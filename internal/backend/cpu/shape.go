package cpu

import (
	"fmt"

	"github.com/born-ml/sepnet/internal/tensor"
)

// Reshape returns a view of t with a new shape. The buffer is shared.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	view, err := t.WithShape(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return view
}

// Transpose permutes dimensions according to axes.
// With no axes all dimensions are reversed, which for 2D is the matrix transpose.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	requireFloat32("transpose", t)

	shape := t.Shape()
	rank := len(shape)
	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", rank, len(axes)))
	}

	seen := make([]bool, rank)
	newShape := make(tensor.Shape, rank)
	for i, a := range axes {
		if a < 0 || a >= rank || seen[a] {
			panic(fmt.Sprintf("transpose: invalid permutation %v", axes))
		}
		seen[a] = true
		newShape[i] = shape[a]
	}

	result := cpu.newResult("transpose", newShape)
	src := t.AsFloat32()
	dst := result.AsFloat32()
	srcStrides := t.Strides()

	for i := range dst {
		rem := i
		off := 0
		for d := rank - 1; d >= 0; d-- {
			coord := rem % newShape[d]
			rem /= newShape[d]
			off += coord * srcStrides[axes[d]]
		}
		dst[i] = src[off]
	}

	return result
}
