// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/sepnet/backend/cpu"
	"github.com/born-ml/sepnet/tensor"
)

func TestNew(t *testing.T) {
	backend := cpu.New()
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())
}

// TestNewWithWorkers checks that worker limits do not change results.
func TestNewWithWorkers(t *testing.T) {
	x := tensor.Randn[float32](tensor.Shape{4, 8, 6, 6}, cpu.New())
	k := tensor.Randn[float32](tensor.Shape{8, 1, 3, 3}, cpu.New())
	params := tensor.Conv2DParams{Padding: 1, Groups: 8}

	want := cpu.New().Conv2D(x.Raw(), k.Raw(), params).AsFloat32()
	for _, workers := range []int{0, 1, 3} {
		got := cpu.NewWithWorkers(workers).Conv2D(x.Raw(), k.Raw(), params).AsFloat32()
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}
