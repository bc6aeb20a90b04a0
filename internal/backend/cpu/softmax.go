package cpu

import (
	"math"

	"github.com/born-ml/sepnet/internal/parallel"
	"github.com/born-ml/sepnet/internal/tensor"
)

// Softmax computes exp(x) / sum(exp(x)) along dim.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return cpu.softmax("softmax", x, dim, false)
}

// LogSoftmax computes x - log(sum(exp(x))) along dim.
//
// Both variants shift by the slice maximum before exponentiating, so large
// logits do not overflow.
func (cpu *CPUBackend) LogSoftmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return cpu.softmax("log_softmax", x, dim, true)
}

func (cpu *CPUBackend) softmax(op string, x *tensor.RawTensor, dim int, logSpace bool) *tensor.RawTensor {
	requireFloat32(op, x)

	shape := x.Shape()
	dim = tensor.NormalizeDim(dim, len(shape))
	outer, axis, inner := shape.SplitAt(dim)

	result := cpu.newResult(op, shape)
	src := x.AsFloat32()
	dst := result.AsFloat32()

	parallel.For(outer*inner, func(k int) {
		o, in := k/inner, k%inner
		base := o*axis*inner + in

		maxVal := math.Inf(-1)
		for a := 0; a < axis; a++ {
			maxVal = math.Max(maxVal, float64(src[base+a*inner]))
		}

		var sum float64
		for a := 0; a < axis; a++ {
			sum += math.Exp(float64(src[base+a*inner]) - maxVal)
		}

		if logSpace {
			logSum := math.Log(sum) + maxVal
			for a := 0; a < axis; a++ {
				idx := base + a*inner
				dst[idx] = float32(float64(src[idx]) - logSum)
			}
			return
		}
		for a := 0; a < axis; a++ {
			idx := base + a*inner
			dst[idx] = float32(math.Exp(float64(src[idx])-maxVal) / sum)
		}
	}, cpu.fine)

	return result
}
