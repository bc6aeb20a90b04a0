package cpu

import (
	"github.com/born-ml/sepnet/internal/parallel"
	"github.com/born-ml/sepnet/internal/tensor"
)

// SumDim sums along dim. With keepDim the reduced dimension stays as size 1.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("sum_dim", x, dim, keepDim, false)
}

// MeanDim averages along dim. With keepDim the reduced dimension stays as size 1.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("mean_dim", x, dim, keepDim, true)
}

func (cpu *CPUBackend) reduceDim(op string, x *tensor.RawTensor, dim int, keepDim, mean bool) *tensor.RawTensor {
	requireFloat32(op, x)

	shape := x.Shape()
	dim = tensor.NormalizeDim(dim, len(shape))
	outer, axis, inner := shape.SplitAt(dim)

	result := cpu.newResult(op, reducedShape(shape, dim, keepDim))
	src := x.AsFloat32()
	dst := result.AsFloat32()

	parallel.For(outer*inner, func(k int) {
		o, in := k/inner, k%inner
		base := o*axis*inner + in

		var sum float64
		for a := 0; a < axis; a++ {
			sum += float64(src[base+a*inner])
		}
		if mean {
			sum /= float64(axis)
		}
		dst[k] = float32(sum)
	}, cpu.fine)

	return result
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	out := make(tensor.Shape, 0, len(shape))
	for i, d := range shape {
		switch {
		case i != dim:
			out = append(out, d)
		case keepDim:
			out = append(out, 1)
		}
	}
	return out
}
