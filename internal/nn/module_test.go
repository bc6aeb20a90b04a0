package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/sepnet/internal/backend/cpu"
	"github.com/born-ml/sepnet/internal/tensor"
)

// block builds a small separable classifier used by the container tests.
func block(backend testBackend, seed int64) *Sequential[testBackend] {
	rng := newRNG(seed)
	return NewSequential[testBackend](
		NewDepthwiseSeparableConv(3, 4, 3, 1, 1, false, backend, rng),
		NewBatchNorm2D(4, DefaultBatchNormEps, DefaultBatchNormMomentum, backend),
		NewReLU[testBackend](),
		NewDropout[testBackend](0.1, rng),
		NewGlobalAvgPool2D(backend),
		NewFlatten[testBackend](),
		NewLinear(4, 2, backend, rng),
		NewLogSoftmax[testBackend](-1),
	)
}

func TestSetTraining_Recursive(t *testing.T) {
	seq := block(cpu.New(), 1)

	SetTraining[testBackend](seq, false)
	assert.False(t, seq.Module(1).(ModeSetter).Training())
	assert.False(t, seq.Module(3).(ModeSetter).Training())

	SetTraining[testBackend](seq, true)
	assert.True(t, seq.Module(1).(ModeSetter).Training())
	assert.True(t, seq.Module(3).(ModeSetter).Training())
}

func TestNamedParameters(t *testing.T) {
	seq := block(cpu.New(), 2)

	var paths []string
	for _, np := range NamedParameters[testBackend](seq) {
		paths = append(paths, np.Path)
	}
	assert.Equal(t, []string{
		"0.depthwise.weight",
		"0.pointwise.weight",
		"1.weight",
		"1.bias",
		"6.weight",
		"6.bias",
	}, paths)

	assert.Equal(t, 27+12+8+10, CountParameters[testBackend](seq))
	assert.Len(t, seq.Parameters(), 6)
}

// TestStateDict_Transfer checks that loading one model's state into another
// reproduces its evaluation outputs.
func TestStateDict_Transfer(t *testing.T) {
	backend := cpu.New()
	src := block(backend, 3)
	dst := block(backend, 4)

	// Populate running statistics.
	src.Forward(randn(newRNG(5), backend, 4, 3, 8, 8))

	SetTraining[testBackend](src, false)
	SetTraining[testBackend](dst, false)

	x := randn(newRNG(6), backend, 2, 3, 8, 8)
	require.NotEqual(t, src.Forward(x).Data(), dst.Forward(x).Data())

	require.NoError(t, dst.LoadStateDict(src.StateDict()))
	assert.Equal(t, src.Forward(x).Data(), dst.Forward(x).Data())

	// Loading copies values; the models stay independent.
	src.Module(6).(*Linear[testBackend]).Bias().Tensor().Data()[0] += 1
	assert.NotEqual(t, src.Forward(x).Data(), dst.Forward(x).Data())
}

func TestLoadStateDict_Errors(t *testing.T) {
	backend := cpu.New()
	seq := block(backend, 7)

	t.Run("unexpected key", func(t *testing.T) {
		sd := seq.StateDict()
		sd["9.weight"] = tensor.Zeros[float32](tensor.Shape{1}, backend).Raw()
		err := seq.LoadStateDict(sd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected keys in state dict: 9.weight")
	})

	t.Run("unexpected leaf key", func(t *testing.T) {
		sd := seq.StateDict()
		sd["2.weight"] = tensor.Zeros[float32](tensor.Shape{1}, backend).Raw()
		err := seq.LoadStateDict(sd)
		require.Error(t, err)
		assert.Equal(t, `2: unexpected key "weight" in state dict`, err.Error())
	})

	t.Run("missing key", func(t *testing.T) {
		sd := seq.StateDict()
		delete(sd, "0.pointwise.weight")
		err := seq.LoadStateDict(sd)
		require.Error(t, err)
		assert.Equal(t, "0: pointwise: missing weight in state dict", err.Error())
	})

	t.Run("shape mismatch", func(t *testing.T) {
		sd := seq.StateDict()
		sd["6.bias"] = tensor.Zeros[float32](tensor.Shape{3}, backend).Raw()
		err := seq.LoadStateDict(sd)
		require.Error(t, err)
		assert.Equal(t, "6: bias shape mismatch: expected [2], got [3]", err.Error())
	})

	t.Run("dtype mismatch", func(t *testing.T) {
		sd := seq.StateDict()
		sd["6.bias"] = tensor.Zeros[float64](tensor.Shape{2}, backend).Raw()
		err := seq.LoadStateDict(sd)
		require.Error(t, err)
		assert.Equal(t, "6: bias dtype mismatch: expected float32, got float64", err.Error())
	})
}

func TestSummarize(t *testing.T) {
	backend := cpu.New()
	seq := block(backend, 8)
	SetTraining[testBackend](seq, false)

	s := Summarize[testBackend](seq, tensor.Zeros[float32](tensor.Shape{2, 3, 8, 8}, backend))

	want := []LayerSummary{
		{Path: "0.depthwise", Type: "Conv2D", OutputShape: tensor.Shape{2, 3, 8, 8}, NumParams: 27},
		{Path: "0.pointwise", Type: "Conv2D", OutputShape: tensor.Shape{2, 4, 8, 8}, NumParams: 12},
		{Path: "1", Type: "BatchNorm2D", OutputShape: tensor.Shape{2, 4, 8, 8}, NumParams: 8},
		{Path: "2", Type: "ReLU", OutputShape: tensor.Shape{2, 4, 8, 8}},
		{Path: "3", Type: "Dropout", OutputShape: tensor.Shape{2, 4, 8, 8}},
		{Path: "4", Type: "AdaptiveAvgPool2D", OutputShape: tensor.Shape{2, 4, 1, 1}},
		{Path: "5", Type: "Flatten", OutputShape: tensor.Shape{2, 4}},
		{Path: "6", Type: "Linear", OutputShape: tensor.Shape{2, 2}, NumParams: 10},
		{Path: "7", Type: "LogSoftmax", OutputShape: tensor.Shape{2, 2}},
	}
	assert.Equal(t, want, s.Layers)
	assert.Equal(t, 57, s.TotalParams)
	assert.Equal(t, tensor.Shape{2, 2}, s.OutputShape)

	table := s.String()
	assert.Contains(t, table, "Layer")
	assert.Contains(t, table, "0.depthwise")
	assert.Contains(t, table, "Total params: 57")
}
