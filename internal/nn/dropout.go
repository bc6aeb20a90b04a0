package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/sepnet/internal/tensor"
)

// Dropout randomly zeroes elements during training.
//
// Each element is kept with probability 1-p and scaled by 1/(1-p), so the
// expected value of the output matches the input. In evaluation mode
// Dropout is the identity.
//
// Modules start in training mode.
type Dropout[B tensor.Backend] struct {
	p        float32
	training bool
	rng      *rand.Rand
}

// NewDropout creates a dropout layer with drop probability p in [0, 1].
// A nil rng uses the global math/rand source.
func NewDropout[B tensor.Backend](p float32, rng *rand.Rand) *Dropout[B] {
	if p < 0 || p > 1 {
		panic(fmt.Sprintf("dropout: probability must be in [0, 1], got %g", p))
	}
	return &Dropout[B]{p: p, training: true, rng: rng}
}

// Forward applies the dropout mask in training mode.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.p == 0 {
		return input
	}
	if d.p == 1 {
		return tensor.Zeros[float32](input.Shape(), input.Backend())
	}

	mask := tensor.Zeros[float32](input.Shape(), input.Backend())
	data := mask.Data()
	for i := range data {
		if d.uniform() >= d.p {
			data[i] = 1
		}
	}
	return input.Mul(mask).MulScalar(1 / (1 - d.p))
}

func (d *Dropout[B]) uniform() float32 {
	if d.rng != nil {
		return d.rng.Float32()
	}
	//nolint:gosec // dropout masks are not security sensitive
	return rand.Float32()
}

// P returns the drop probability.
func (d *Dropout[B]) P() float32 {
	return d.p
}

// SetTraining enables (true) or disables (false) dropout.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

// Training reports whether dropout is active.
func (d *Dropout[B]) Training() bool {
	return d.training
}

// Parameters returns nil (Dropout has no trainable parameters).
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns an empty map.
func (d *Dropout[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict accepts only an empty state dict.
func (d *Dropout[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return loadLeafStateDict(stateDict, map[string]*tensor.Tensor[float32, B]{})
}

// String returns a description of the layer.
func (d *Dropout[B]) String() string {
	return fmt.Sprintf("Dropout(p=%g)", d.p)
}
