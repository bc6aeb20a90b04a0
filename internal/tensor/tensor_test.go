package tensor_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/sepnet/internal/backend/cpu"
	"github.com/born-ml/sepnet/internal/tensor"
)

func TestShape_Basics(t *testing.T) {
	s := tensor.Shape{2, 3, 4}

	assert.Equal(t, 24, s.NumElements())
	assert.Equal(t, []int{12, 4, 1}, s.ComputeStrides())
	assert.Equal(t, 1, tensor.Shape{}.NumElements())
	assert.Equal(t, "[2, 3, 4]", s.String())
	assert.True(t, s.Equal(s.Clone()))
	assert.False(t, s.Equal(tensor.Shape{2, 3}))

	require.Error(t, tensor.Shape{2, 0}.Validate())
	require.NoError(t, s.Validate())
}

func TestShape_SplitAt(t *testing.T) {
	outer, axis, inner := tensor.Shape{2, 3, 4, 5}.SplitAt(1)
	assert.Equal(t, []int{2, 3, 20}, []int{outer, axis, inner})
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b      tensor.Shape
		want      tensor.Shape
		broadcast bool
		wantErr   bool
	}{
		{tensor.Shape{3, 1}, tensor.Shape{3, 5}, tensor.Shape{3, 5}, true, false},
		{tensor.Shape{3, 5}, tensor.Shape{3, 5}, tensor.Shape{3, 5}, false, false},
		{tensor.Shape{1, 64, 1, 1}, tensor.Shape{8, 64, 4, 4}, tensor.Shape{8, 64, 4, 4}, true, false},
		{tensor.Shape{5}, tensor.Shape{2, 5}, tensor.Shape{2, 5}, true, false},
		{tensor.Shape{3, 4}, tensor.Shape{3, 5}, nil, false, true},
	}

	for _, tt := range tests {
		got, broadcast, err := tensor.BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.broadcast, broadcast)
	}
}

func TestNormalizeDim(t *testing.T) {
	assert.Equal(t, 1, tensor.NormalizeDim(-1, 2))
	assert.Equal(t, 0, tensor.NormalizeDim(0, 2))
	assert.Panics(t, func() { tensor.NormalizeDim(2, 2) })
}

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, float32(6), x.At(1, 2))
	assert.Equal(t, tensor.Float32, x.DType())
	assert.Equal(t, tensor.CPU, x.Device())

	x.Set(42, 0, 1)
	assert.Equal(t, float32(42), x.Data()[1])
	assert.Panics(t, func() { x.At(2, 0) })
	assert.Panics(t, func() { x.At(0) })

	_, err = tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 2}, backend)
	assert.Error(t, err)
}

func TestTensor_CloneIsDeep(t *testing.T) {
	backend := cpu.New()
	x := tensor.Ones[float32](tensor.Shape{2, 2}, backend)

	y := x.Clone()
	y.Set(5, 0, 0)

	assert.Equal(t, float32(1), x.At(0, 0))
	assert.Equal(t, float32(5), y.At(0, 0))
}

func TestTensor_Creation(t *testing.T) {
	backend := cpu.New()

	assert.Equal(t, []float32{0, 0, 0}, tensor.Zeros[float32](tensor.Shape{3}, backend).Data())
	assert.Equal(t, []float32{2.5, 2.5}, tensor.Full[float32](tensor.Shape{2}, 2.5, backend).Data())
	assert.Equal(t, float64(1), tensor.Ones[float64](tensor.Shape{1}, backend).Item())

	a := tensor.RandnFrom[float32](rand.New(rand.NewSource(3)), tensor.Shape{16}, backend)
	b := tensor.RandnFrom[float32](rand.New(rand.NewSource(3)), tensor.Shape{16}, backend)
	assert.Equal(t, a.Data(), b.Data(), "same seed yields the same values")

	u := tensor.RandFrom[float32](rand.New(rand.NewSource(1)), tensor.Shape{64}, backend)
	for _, v := range u.Data() {
		assert.True(t, v >= 0 && v < 1)
	}
}

func TestTensor_ItemRequiresSingleElement(t *testing.T) {
	backend := cpu.New()
	assert.Panics(t, func() { tensor.Zeros[float32](tensor.Shape{2}, backend).Item() })
}

func TestTensor_Reshape(t *testing.T) {
	backend := cpu.New()
	x := tensor.Zeros[float32](tensor.Shape{8, 64, 1, 1}, backend)

	assert.Equal(t, tensor.Shape{8, 64}, x.Reshape(8, -1).Shape())
	assert.Equal(t, tensor.Shape{512}, x.Reshape(-1).Shape())
	assert.Panics(t, func() { x.Reshape(-1, -1) })
	assert.Panics(t, func() { x.Reshape(7, -1) })
}

func TestTensor_OpsDelegate(t *testing.T) {
	backend := cpu.New()
	a, err := tensor.FromSlice([]float32{1, -2, 3, -4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 0, 3, 0}, a.ReLU().Data())
	assert.Equal(t, []float32{2, -4, 6, -8}, a.MulScalar(2).Data())
	assert.Equal(t, []float32{2, -1, 4, -3}, a.AddScalar(1).Data())
	assert.Equal(t, []float32{2, -4, 6, -8}, a.Add(a).Data())
	assert.Equal(t, []float32{1, 3, -2, -4}, a.Transpose().Data())
	assert.Equal(t, []float32{-1, -1}, a.SumDim(1, false).Data())
	assert.Equal(t, []float32{2, -3}, a.MeanDim(0, false).Data())
	assert.Equal(t, []int{0, 0}, a.Argmax(1))
	assert.Equal(t, []int{1, 0}, a.Argmax(0))
}

func TestTensor_String(t *testing.T) {
	backend := cpu.New()
	x := tensor.Ones[float32](tensor.Shape{1, 10}, backend)
	assert.Contains(t, x.String(), "shape=[1, 10]")
	assert.Contains(t, x.String(), "...")
}
