package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/sepnet/internal/tensor"
)

func TestBackendMetadata(t *testing.T) {
	backend := New()
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())
}

func TestAdd_Broadcast(t *testing.T) {
	backend := New()

	a := rawFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := rawFrom(t, []float32{10, 20, 30}, tensor.Shape{1, 3})
	col := rawFrom(t, []float32{100, 200}, tensor.Shape{2, 1})

	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, backend.Add(a, b).AsFloat32())
	assert.Equal(t, []float32{101, 102, 103, 204, 205, 206}, backend.Add(a, col).AsFloat32())

	// Missing leading dims broadcast: [3] against [2, 3].
	row := rawFrom(t, []float32{1, 1, 1}, tensor.Shape{3})
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5}, backend.Sub(a, row).AsFloat32())
}

func TestBinary_IncompatibleShapesPanic(t *testing.T) {
	backend := New()
	a := rawFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := rawFrom(t, []float32{1, 2}, tensor.Shape{2})

	assert.Panics(t, func() { backend.Mul(a, b) })
}

func TestMulDivScalar(t *testing.T) {
	backend := New()
	a := rawFrom(t, []float32{2, 4, 8}, tensor.Shape{3})
	b := rawFrom(t, []float32{2, 2, 4}, tensor.Shape{3})

	assert.Equal(t, []float32{4, 8, 32}, backend.Mul(a, b).AsFloat32())
	assert.Equal(t, []float32{1, 2, 2}, backend.Div(a, b).AsFloat32())
	assert.Equal(t, []float32{1, 2, 4}, backend.MulScalar(a, 0.5).AsFloat32())
	assert.Equal(t, []float32{3, 5, 9}, backend.AddScalar(a, 1).AsFloat32())
}

func TestUnaryMath(t *testing.T) {
	backend := New()
	x := rawFrom(t, []float32{-1, 0, 4}, tensor.Shape{3})

	assert.Equal(t, []float32{0, 0, 4}, backend.ReLU(x).AsFloat32())

	sq := backend.Sqrt(rawFrom(t, []float32{4, 9}, tensor.Shape{2}))
	assert.Equal(t, []float32{2, 3}, sq.AsFloat32())

	e := backend.Exp(x).AsFloat32()
	assert.InDelta(t, math.Exp(-1), float64(e[0]), 1e-6)
	assert.InDelta(t, 1, float64(e[1]), 1e-6)

	l := backend.Log(rawFrom(t, []float32{1, float32(math.E)}, tensor.Shape{2})).AsFloat32()
	assert.InDeltaSlice(t, []float32{0, 1}, l, 1e-6)
}

func TestUnary_RejectsFloat64(t *testing.T) {
	backend := New()
	raw, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)

	assert.PanicsWithValue(t, "relu: unsupported dtype float64", func() { backend.ReLU(raw) })
}

func TestMatMul(t *testing.T) {
	backend := New()
	a := rawFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := rawFrom(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	c := backend.MatMul(a, b)

	require.Equal(t, tensor.Shape{2, 2}, c.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, c.AsFloat32())
}

func TestMatMul_MismatchPanics(t *testing.T) {
	backend := New()
	a := rawFrom(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawFrom(t, []float32{1, 2, 3}, tensor.Shape{3, 1})

	assert.Panics(t, func() { backend.MatMul(a, b) })
}

func TestTranspose(t *testing.T) {
	backend := New()
	a := rawFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	at := backend.Transpose(a)
	require.Equal(t, tensor.Shape{3, 2}, at.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, at.AsFloat32())

	x := rawFrom(t, []float32{0, 1, 2, 3, 4, 5, 6, 7}, tensor.Shape{2, 2, 2})
	xp := backend.Transpose(x, 2, 0, 1)
	require.Equal(t, tensor.Shape{2, 2, 2}, xp.Shape())
	// xp[i, j, k] = x[j, k, i]
	assert.Equal(t, []float32{0, 2, 4, 6, 1, 3, 5, 7}, xp.AsFloat32())

	assert.Panics(t, func() { backend.Transpose(x, 0, 0, 1) })
}

func TestReshape_SharesBuffer(t *testing.T) {
	backend := New()
	a := rawFrom(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	r := backend.Reshape(a, tensor.Shape{4})
	r.AsFloat32()[0] = 42

	assert.Equal(t, float32(42), a.AsFloat32()[0])
	assert.Panics(t, func() { backend.Reshape(a, tensor.Shape{3}) })
}

func TestSumMeanDim(t *testing.T) {
	backend := New()
	x := rawFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	s0 := backend.SumDim(x, 0, false)
	assert.Equal(t, tensor.Shape{3}, s0.Shape())
	assert.Equal(t, []float32{5, 7, 9}, s0.AsFloat32())

	m1 := backend.MeanDim(x, -1, true)
	assert.Equal(t, tensor.Shape{2, 1}, m1.Shape())
	assert.Equal(t, []float32{2, 5}, m1.AsFloat32())
}

func TestSoftmax_RowsSumToOne(t *testing.T) {
	backend := New()
	x := rawFrom(t, []float32{1, 2, 3, 1000, 1000, 1000}, tensor.Shape{2, 3})

	sm := backend.Softmax(x, 1).AsFloat32()
	var row0, row1 float64
	for i := 0; i < 3; i++ {
		row0 += float64(sm[i])
		row1 += float64(sm[3+i])
	}
	assert.InDelta(t, 1, row0, 1e-6)
	assert.InDelta(t, 1, row1, 1e-6)
	assert.InDelta(t, 1.0/3, float64(sm[4]), 1e-6, "large equal logits must not overflow")
}

func TestLogSoftmax_MatchesLogOfSoftmax(t *testing.T) {
	backend := New()
	x := rawFrom(t, []float32{0.5, -1, 2, 3, 0, 0}, tensor.Shape{2, 3})

	ls := backend.LogSoftmax(x, -1).AsFloat32()
	sm := backend.Softmax(x, -1).AsFloat32()
	for i := range ls {
		assert.InDelta(t, math.Log(float64(sm[i])), float64(ls[i]), 1e-5)
	}

	// Along dim 0 each column normalizes independently.
	col := backend.LogSoftmax(x, 0).AsFloat32()
	assert.InDelta(t, 1, math.Exp(float64(col[0]))+math.Exp(float64(col[3])), 1e-6)
}

func TestAdaptiveAvgPool2D(t *testing.T) {
	backend := New()
	// [1, 2, 2, 2]
	x := rawFrom(t, []float32{1, 2, 3, 4, 10, 20, 30, 40}, tensor.Shape{1, 2, 2, 2})

	gap := backend.AdaptiveAvgPool2D(x, 1, 1)
	require.Equal(t, tensor.Shape{1, 2, 1, 1}, gap.Shape())
	assert.Equal(t, []float32{2.5, 25}, gap.AsFloat32())
}

func TestAdaptiveAvgPool2D_OverlappingBins(t *testing.T) {
	backend := New()
	// 1x1x3x3, pooled to 2x2: bins cover rows/cols [0,2) and [1,3).
	x := rawFrom(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{1, 1, 3, 3})

	out := backend.AdaptiveAvgPool2D(x, 2, 2)
	require.Equal(t, tensor.Shape{1, 1, 2, 2}, out.Shape())
	assert.Equal(t, []float32{3, 4, 6, 7}, out.AsFloat32())
}

func TestChannelMomentsAndBatchNorm(t *testing.T) {
	backend := New()
	// N=2, C=2, H=1, W=2. Channel 0: {1, 3, 5, 7}; channel 1: {2, 2, 2, 2}.
	x := rawFrom(t, []float32{1, 3, 2, 2, 5, 7, 2, 2}, tensor.Shape{2, 2, 1, 2})

	mean, variance := backend.ChannelMoments(x)
	assert.Equal(t, []float32{4, 2}, mean.AsFloat32())
	assert.Equal(t, []float32{5, 0}, variance.AsFloat32())

	weight := rawFrom(t, []float32{2, 1}, tensor.Shape{2})
	bias := rawFrom(t, []float32{0, 0.5}, tensor.Shape{2})
	y := backend.BatchNorm2D(x, mean, variance, weight, bias, 0).AsFloat32()

	inv := float32(1 / math.Sqrt(5))
	assert.InDelta(t, float64(2*(1-4)*inv), float64(y[0]), 1e-5)
	assert.InDelta(t, float64(2*(7-4)*inv), float64(y[5]), 1e-5)

	// Channel 1 has zero variance; with eps > 0 it collapses onto its bias.
	y = backend.BatchNorm2D(x, mean, variance, weight, bias, 1e-5).AsFloat32()
	assert.InDelta(t, 0.5, float64(y[2]), 1e-4)
}

func TestBatchNorm2D_NilAffine(t *testing.T) {
	backend := New()
	x := rawFrom(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})
	mean := rawFrom(t, []float32{2.5}, tensor.Shape{1})
	variance := rawFrom(t, []float32{1}, tensor.Shape{1})

	y := backend.BatchNorm2D(x, mean, variance, nil, nil, 0).AsFloat32()
	assert.Equal(t, []float32{-1.5, -0.5, 0.5, 1.5}, y)

	assert.Panics(t, func() {
		backend.BatchNorm2D(x, rawFrom(t, []float32{1, 2}, tensor.Shape{2}), variance, nil, nil, 0)
	})
}
