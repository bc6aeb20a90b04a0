// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/sepnet/internal/backend/cpu"
	"github.com/born-ml/sepnet/internal/parallel"
	"github.com/born-ml/sepnet/tensor"
)

// Backend represents the CPU backend implementation.
//
// CPU backend provides pure Go implementations of all tensor operations,
// with gonum BLAS for matrix products and im2col convolutions.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend that spreads work across all CPUs.
//
// Example:
//
//	import (
//	    "github.com/born-ml/sepnet/backend/cpu"
//	    "github.com/born-ml/sepnet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithWorkers creates a CPU backend limited to the given number of
// goroutines. One worker runs every kernel on the calling goroutine.
func NewWithWorkers(workers int) *Backend {
	cfg := parallel.DefaultConfig()
	if workers <= 1 {
		cfg = parallel.Sequential()
	} else {
		cfg.Enabled = true
		cfg.NumWorkers = workers
	}
	return internalcpu.NewWithConfig(cfg)
}
