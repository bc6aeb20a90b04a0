// Package cpu implements the CPU backend on top of gonum BLAS.
package cpu

import (
	"fmt"

	"github.com/born-ml/sepnet/internal/parallel"
	"github.com/born-ml/sepnet/internal/tensor"
)

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements tensor operations on CPU.
//
// Element-wise kernels split flat index ranges across workers; image kernels
// (Conv2D, pooling, normalization) fan out one (batch, channel or group)
// slice per work item.
type CPUBackend struct {
	device tensor.Device
	fine   parallel.Config // element-wise work
	coarse parallel.Config // per-image / per-channel work
}

// New creates a new CPU backend using all available cores.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with explicit parallel settings.
// Use parallel.Sequential() for single-threaded execution.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		fine:   cfg,
		coarse: cfg.WithMinChunk(1),
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

func (cpu *CPUBackend) newResult(op string, shape tensor.Shape) *tensor.RawTensor {
	return tensor.MustNewRaw(op, shape, tensor.Float32, cpu.device)
}

// requireFloat32 panics unless every tensor holds float32 data.
func requireFloat32(op string, ts ...*tensor.RawTensor) {
	for _, t := range ts {
		if t == nil {
			continue
		}
		if t.DType() != tensor.Float32 {
			panic(fmt.Sprintf("%s: unsupported dtype %s", op, t.DType()))
		}
	}
}

// require4D panics unless shape is [N, C, H, W].
func require4D(op, what string, shape tensor.Shape) {
	if len(shape) != 4 {
		panic(fmt.Sprintf("%s: %s must be 4D [N,C,H,W], got %dD", op, what, len(shape)))
	}
}
