package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/sepnet/internal/parallel"
	"github.com/born-ml/sepnet/internal/tensor"
)

// ChannelMoments returns the per-channel mean and biased variance of a
// [N, C, H, W] tensor, each with shape [C]. Accumulation is done in float64.
func (cpu *CPUBackend) ChannelMoments(input *tensor.RawTensor) (mean, variance *tensor.RawTensor) {
	requireFloat32("channel_moments", input)

	shape := input.Shape()
	require4D("channel_moments", "input", shape)

	n, c, hw := shape[0], shape[1], shape[2]*shape[3]
	count := float64(n * hw)

	mean = cpu.newResult("channel_moments", tensor.Shape{c})
	variance = cpu.newResult("channel_moments", tensor.Shape{c})

	src := input.AsFloat32()
	meanData := mean.AsFloat32()
	varData := variance.AsFloat32()

	parallel.For(c, func(ch int) {
		var sum float64
		for b := 0; b < n; b++ {
			for _, v := range src[(b*c+ch)*hw : (b*c+ch+1)*hw] {
				sum += float64(v)
			}
		}
		mu := sum / count

		var sq float64
		for b := 0; b < n; b++ {
			for _, v := range src[(b*c+ch)*hw : (b*c+ch+1)*hw] {
				d := float64(v) - mu
				sq += d * d
			}
		}

		meanData[ch] = float32(mu)
		varData[ch] = float32(sq / count)
	}, cpu.coarse)

	return mean, variance
}

// BatchNorm2D normalizes a [N, C, H, W] tensor per channel:
//
//	y = weight[c] * (x - mean[c]) / sqrt(variance[c] + eps) + bias[c]
//
// mean and variance must have shape [C]. weight and bias may be nil, meaning
// 1 and 0 respectively.
func (cpu *CPUBackend) BatchNorm2D(input, mean, variance, weight, bias *tensor.RawTensor, eps float32) *tensor.RawTensor {
	requireFloat32("batchnorm2d", input, mean, variance, weight, bias)

	shape := input.Shape()
	require4D("batchnorm2d", "input", shape)

	n, c, hw := shape[0], shape[1], shape[2]*shape[3]
	for name, t := range map[string]*tensor.RawTensor{"mean": mean, "variance": variance, "weight": weight, "bias": bias} {
		if t == nil {
			if name == "mean" || name == "variance" {
				panic(fmt.Sprintf("batchnorm2d: %s is required", name))
			}
			continue
		}
		if !t.Shape().Equal(tensor.Shape{c}) {
			panic(fmt.Sprintf("batchnorm2d: %s shape %v, expected [%d]", name, t.Shape(), c))
		}
	}

	// Fold statistics and affine terms into one scale and shift per channel.
	scale := make([]float32, c)
	shift := make([]float32, c)
	meanData, varData := mean.AsFloat32(), variance.AsFloat32()
	for ch := 0; ch < c; ch++ {
		s := float32(1 / math.Sqrt(float64(varData[ch])+float64(eps)))
		if weight != nil {
			s *= weight.AsFloat32()[ch]
		}
		sh := -meanData[ch] * s
		if bias != nil {
			sh += bias.AsFloat32()[ch]
		}
		scale[ch], shift[ch] = s, sh
	}

	output := cpu.newResult("batchnorm2d", shape)
	src := input.AsFloat32()
	dst := output.AsFloat32()

	parallel.ForBatch(n, c, func(b, ch int) {
		off := (b*c + ch) * hw
		s, sh := scale[ch], shift[ch]
		for i := off; i < off+hw; i++ {
			dst[i] = src[i]*s + sh
		}
	}, cpu.coarse)

	return output
}
