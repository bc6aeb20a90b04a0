package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/sepnet/internal/tensor"
)

// Uniform creates a tensor with values drawn from U(-bound, bound).
// A nil rng uses the global math/rand source.
func Uniform[B tensor.Backend](bound float64, shape tensor.Shape, backend B, rng *rand.Rand) *tensor.Tensor[float32, B] {
	t := tensor.Zeros[float32](shape, backend)
	data := t.Data()
	for i := range data {
		var u float64
		if rng != nil {
			u = rng.Float64()
		} else {
			//nolint:gosec // weight initialization is not security sensitive
			u = rand.Float64()
		}
		data[i] = float32((u*2 - 1) * bound)
	}
	return t
}

// KaimingUniform initializes weights the way PyTorch's Conv2d and Linear do
// by default: kaiming_uniform with a = sqrt(5), which reduces to
//
//	U(-1/sqrt(fan_in), 1/sqrt(fan_in))
//
// For grouped convolutions fan_in counts only the channels of one group.
func KaimingUniform[B tensor.Backend](fanIn int, shape tensor.Shape, backend B, rng *rand.Rand) *tensor.Tensor[float32, B] {
	return Uniform(1/math.Sqrt(float64(fanIn)), shape, backend, rng)
}

// Zeros creates a tensor filled with zeros.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32](shape, backend)
}
