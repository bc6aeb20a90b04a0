package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/sepnet/internal/backend/cpu"
	"github.com/born-ml/sepnet/internal/tensor"
)

type testBackend = *cpu.CPUBackend

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
}

func fromSlice(t *testing.T, backend testBackend, data []float32, shape ...int) *tensor.Tensor[float32, testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape(shape), backend)
	require.NoError(t, err)
	return x
}

func randn(rng *rand.Rand, backend testBackend, shape ...int) *tensor.Tensor[float32, testBackend] {
	return tensor.RandnFrom[float32](rng, tensor.Shape(shape), backend)
}
