// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/sepnet/backend/cpu"
	"github.com/born-ml/sepnet/tensor"
)

// TestBackendInterface verifies that the CPU backend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = cpu.New()
}

// TestRawTensorAPI verifies the RawTensor alias exposes the expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	assert.True(t, raw.Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, tensor.Float32, raw.DType())
	assert.Equal(t, tensor.CPU, raw.Device())
	assert.Equal(t, 6, raw.NumElements())
	assert.Equal(t, 6*4, raw.ByteSize())

	raw.AsFloat32()[0] = 1
	clone := raw.Clone()
	clone.AsFloat32()[0] = 2
	assert.Equal(t, float32(1), raw.AsFloat32()[0], "Clone must not share the buffer")

	_, err = tensor.NewRaw(tensor.Shape{2, -1}, tensor.Float32, tensor.CPU)
	assert.Error(t, err)
}

func TestCreation(t *testing.T) {
	backend := cpu.New()

	assert.Equal(t, []float32{0, 0, 0}, tensor.Zeros[float32](tensor.Shape{3}, backend).Data())
	assert.Equal(t, []float32{1, 1}, tensor.Ones[float32](tensor.Shape{2}, backend).Data())
	assert.Equal(t, []float64{2.5, 2.5}, tensor.Full[float64](tensor.Shape{2}, 2.5, backend).Data())

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, float32(6), x.At(1, 2))

	_, err = tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 3}, backend)
	assert.Error(t, err)

	for _, v := range tensor.Rand[float32](tensor.Shape{100}, backend).Data() {
		assert.True(t, v >= 0 && v <= 1)
	}
	assert.Equal(t, tensor.Shape{2, 3, 4}, tensor.Randn[float32](tensor.Shape{2, 3, 4}, backend).Shape())

	a := tensor.RandnFrom[float32](rand.New(rand.NewSource(1)), tensor.Shape{8}, backend)
	b := tensor.RandnFrom[float32](rand.New(rand.NewSource(1)), tensor.Shape{8}, backend)
	assert.Equal(t, a.Data(), b.Data())

	raw, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2}, tensor.New[float32](raw, backend).Shape())
}

func TestOperations(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	bias, err := tensor.FromSlice([]float32{10, 20}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	assert.Equal(t, []float32{11, 22, 13, 24}, x.Add(bias).Data())
	assert.Equal(t, []float32{2, 4, 6, 8}, x.MulScalar(2).Data())
	assert.Equal(t, []float32{5, 11, 11, 25}, x.MatMul(x.Transpose()).Data())
	assert.Equal(t, tensor.Shape{4, 1}, x.Reshape(-1, 1).Shape())
	assert.Equal(t, []int{1, 1}, x.Argmax(1))

	params := tensor.Conv2DParams{Padding: 1}.Normalize()
	assert.Equal(t, 1, params.Stride)
	assert.Equal(t, 32, params.OutputSize(32, 3))
}

func TestBroadcastShapes(t *testing.T) {
	shape, needs, err := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{3, 4})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 4}, shape)
	assert.True(t, needs)

	_, _, err = tensor.BroadcastShapes(tensor.Shape{3, 4}, tensor.Shape{3, 5})
	assert.Error(t, err)
}
