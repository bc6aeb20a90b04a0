package nn

import (
	"github.com/born-ml/sepnet/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are the weights and biases of layers. They are initialized at
// construction; an external optimizer may overwrite their data in place or
// through LoadStateDict.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewParameter creates a new trainable parameter around an initialized tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name local to its layer ("weight", "bias").
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// NumElements returns the number of scalars in the parameter.
func (p *Parameter[B]) NumElements() int {
	return p.tensor.NumElements()
}
