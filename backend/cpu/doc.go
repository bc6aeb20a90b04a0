// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Im2col algorithm for grouped, strided and dilated convolutions
//   - gonum BLAS (blas32) for matrix multiplication
//   - Per-image and per-channel parallelism for batched kernels
//   - NumPy-compatible broadcasting
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/sepnet/backend/cpu"
//	    "github.com/born-ml/sepnet/model"
//	    "github.com/born-ml/sepnet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    net, err := model.New(model.DefaultConfig(), backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    net.Eval()
//	    logProbs := net.Forward(tensor.Randn[float32](tensor.Shape{8, 3, 32, 32}, backend))
//	}
//
// # Thread Safety
//
// Backend operations do not share mutable state and are safe for concurrent
// use. Modules holding batch norm statistics or dropout generators are not.
package cpu
