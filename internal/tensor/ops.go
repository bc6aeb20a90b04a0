package tensor

import "fmt"

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	a := tensor.Ones[float32](Shape{3, 1}, backend)
//	b := tensor.Ones[float32](Shape{3, 5}, backend)
//	c := a.Add(b) // Shape: [3, 5]
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Mul(t.raw, other.raw), t.backend)
}

// Div performs element-wise division with broadcasting.
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Div(t.raw, other.raw), t.backend)
}

// AddScalar adds a scalar to every element.
func (t *Tensor[T, B]) AddScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.AddScalar(t.raw, float32(scalar)), t.backend)
}

// MulScalar multiplies every element by a scalar.
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.MulScalar(t.raw, float32(scalar)), t.backend)
}

// Exp computes e^x element-wise.
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	return New[T, B](t.backend.Exp(t.raw), t.backend)
}

// Log computes the natural logarithm element-wise.
func (t *Tensor[T, B]) Log() *Tensor[T, B] {
	return New[T, B](t.backend.Log(t.raw), t.backend)
}

// Sqrt computes the square root element-wise.
func (t *Tensor[T, B]) Sqrt() *Tensor[T, B] {
	return New[T, B](t.backend.Sqrt(t.raw), t.backend)
}

// ReLU computes max(0, x) element-wise.
func (t *Tensor[T, B]) ReLU() *Tensor[T, B] {
	return New[T, B](t.backend.ReLU(t.raw), t.backend)
}

// MatMul performs matrix multiplication: (M, K) @ (K, N) → (M, N).
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.MatMul(t.raw, other.raw), t.backend)
}

// Reshape returns a tensor with the same data but a different shape.
// At most one dimension may be -1; it is inferred from the element count.
//
// Example:
//
//	x := tensor.Zeros[float32](Shape{8, 64, 1, 1}, backend)
//	flat := x.Reshape(8, -1) // Shape: [8, 64]
func (t *Tensor[T, B]) Reshape(newShape ...int) *Tensor[T, B] {
	shape, err := InferShape(Shape(newShape), t.NumElements())
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return New[T, B](t.backend.Reshape(t.raw, shape), t.backend)
}

// Transpose permutes the tensor's dimensions.
// With no axes all dimensions are reversed.
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	return New[T, B](t.backend.Transpose(t.raw, axes...), t.backend)
}

// Softmax normalizes along dim so values are positive and sum to 1.
func (t *Tensor[T, B]) Softmax(dim int) *Tensor[T, B] {
	return New[T, B](t.backend.Softmax(t.raw, dim), t.backend)
}

// LogSoftmax computes log(softmax(x)) along dim.
func (t *Tensor[T, B]) LogSoftmax(dim int) *Tensor[T, B] {
	return New[T, B](t.backend.LogSoftmax(t.raw, dim), t.backend)
}

// SumDim sums along dim.
func (t *Tensor[T, B]) SumDim(dim int, keepDim bool) *Tensor[T, B] {
	return New[T, B](t.backend.SumDim(t.raw, dim, keepDim), t.backend)
}

// MeanDim averages along dim.
func (t *Tensor[T, B]) MeanDim(dim int, keepDim bool) *Tensor[T, B] {
	return New[T, B](t.backend.MeanDim(t.raw, dim, keepDim), t.backend)
}

// Argmax returns, for every slice along dim, the index of its largest value.
// The result is laid out in row-major order over the remaining dimensions.
// Ties resolve to the lowest index.
func (t *Tensor[T, B]) Argmax(dim int) []int {
	dim = NormalizeDim(dim, len(t.Shape()))
	outer, axis, inner := t.Shape().SplitAt(dim)
	data := t.Data()

	result := make([]int, outer*inner)
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*axis*inner + in
			best := 0
			for a := 1; a < axis; a++ {
				if data[base+a*inner] > data[base+best*inner] {
					best = a
				}
			}
			result[o*inner+in] = best
		}
	}
	return result
}

// InferShape resolves a single -1 entry against numElements and checks that
// the resulting shape holds exactly numElements.
func InferShape(shape Shape, numElements int) (Shape, error) {
	out := shape.Clone()
	unknown := -1
	known := 1
	for i, d := range out {
		switch {
		case d == -1:
			if unknown >= 0 {
				return nil, fmt.Errorf("only one dimension can be inferred, got %v", shape)
			}
			unknown = i
		case d <= 0:
			return nil, fmt.Errorf("invalid dimension %d in %v", d, shape)
		default:
			known *= d
		}
	}

	if unknown >= 0 {
		if known == 0 || numElements%known != 0 {
			return nil, fmt.Errorf("cannot infer dimension of %v for %d elements", shape, numElements)
		}
		out[unknown] = numElements / known
	}

	if out.NumElements() != numElements {
		return nil, fmt.Errorf("shape %v holds %d elements, tensor has %d", out, out.NumElements(), numElements)
	}
	return out, nil
}
