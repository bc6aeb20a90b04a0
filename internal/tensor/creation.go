package tensor

import (
	"fmt"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, 1, b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Rand creates a tensor with values drawn from U(0, 1) using the global source.
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return RandFrom[T, B](nil, shape, b)
}

// Randn creates a tensor with values drawn from N(0, 1) using the global source.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return RandnFrom[T, B](nil, shape, b)
}

// RandFrom is Rand with an explicit random source. A nil rng uses the
// global math/rand source.
func RandFrom[T DType, B Backend](rng *rand.Rand, shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		if rng != nil {
			data[i] = T(rng.Float64())
		} else {
			//nolint:gosec // not security sensitive
			data[i] = T(rand.Float64())
		}
	}
	return t
}

// RandnFrom is Randn with an explicit random source. A nil rng uses the
// global math/rand source.
func RandnFrom[T DType, B Backend](rng *rand.Rand, shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		if rng != nil {
			data[i] = T(rng.NormFloat64())
		} else {
			//nolint:gosec // not security sensitive
			data[i] = T(rand.NormFloat64())
		}
	}
	return t
}
