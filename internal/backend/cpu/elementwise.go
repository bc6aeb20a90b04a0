package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/sepnet/internal/parallel"
	"github.com/born-ml/sepnet/internal/tensor"
)

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b, func(x, y float32) float32 { return x / y })
}

// AddScalar adds scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return cpu.unary("add_scalar", x, func(v float32) float32 { return v + scalar })
}

// MulScalar multiplies every element by scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return cpu.unary("mul_scalar", x, func(v float32) float32 { return v * scalar })
}

// Exp computes e^x element-wise.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("exp", x, func(v float32) float32 { return float32(math.Exp(float64(v))) })
}

// Log computes the natural logarithm element-wise.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("log", x, func(v float32) float32 { return float32(math.Log(float64(v))) })
}

// Sqrt computes the square root element-wise.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sqrt", x, func(v float32) float32 { return float32(math.Sqrt(float64(v))) })
}

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("relu", x, func(v float32) float32 {
		if v > 0 {
			return v
		}
		return 0
	})
}

func (cpu *CPUBackend) unary(op string, x *tensor.RawTensor, f func(float32) float32) *tensor.RawTensor {
	requireFloat32(op, x)

	result := cpu.newResult(op, x.Shape())
	src := x.AsFloat32()
	dst := result.AsFloat32()

	parallel.For(len(dst), func(i int) {
		dst[i] = f(src[i])
	}, cpu.fine)

	return result
}

func (cpu *CPUBackend) binary(op string, a, b *tensor.RawTensor, f func(x, y float32) float32) *tensor.RawTensor {
	requireFloat32(op, a, b)

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result := cpu.newResult(op, outShape)
	aData := a.AsFloat32()
	bData := b.AsFloat32()
	dst := result.AsFloat32()

	// Fast path: identical shapes.
	if !needsBroadcast {
		parallel.For(len(dst), func(i int) {
			dst[i] = f(aData[i], bData[i])
		}, cpu.fine)
		return result
	}

	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	rank := len(outShape)

	parallel.For(len(dst), func(i int) {
		rem := i
		aOff, bOff := 0, 0
		for d := rank - 1; d >= 0; d-- {
			coord := rem % outShape[d]
			rem /= outShape[d]
			aOff += coord * aStrides[d]
			bOff += coord * bStrides[d]
		}
		dst[i] = f(aData[aOff], bData[bOff])
	}, cpu.fine)

	return result
}

// broadcastStrides returns strides of shape aligned to the right of outShape,
// with stride 0 on every broadcast (size-1 or missing) dimension.
func broadcastStrides(shape, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	src := shape.ComputeStrides()
	offset := len(outShape) - len(shape)
	for d := range outShape {
		sd := d - offset
		if sd < 0 || shape[sd] == 1 {
			continue
		}
		strides[d] = src[sd]
	}
	return strides
}
