package nn

import (
	"fmt"

	"github.com/born-ml/sepnet/internal/tensor"
)

// Default batch normalization hyperparameters (PyTorch defaults).
const (
	DefaultBatchNormEps      = 1e-5
	DefaultBatchNormMomentum = 0.1
)

// BatchNorm2D normalizes each channel of a [N, C, H, W] input.
//
// In training mode the layer normalizes with the batch's per-channel mean and
// biased variance, and updates its running statistics:
//
//	running_mean = (1 - momentum) * running_mean + momentum * mean
//	running_var  = (1 - momentum) * running_var  + momentum * var * n/(n-1)
//
// where n = N*H*W. In evaluation mode it normalizes with the running
// statistics, so the output does not depend on the rest of the batch.
//
// Modules start in training mode.
type BatchNorm2D[B tensor.Backend] struct {
	numFeatures int
	eps         float32
	momentum    float32
	training    bool

	weight *Parameter[B] // gamma, [C], initialized to 1
	bias   *Parameter[B] // beta, [C], initialized to 0

	runningMean *tensor.Tensor[float32, B] // [C], initialized to 0
	runningVar  *tensor.Tensor[float32, B] // [C], initialized to 1
	batches     int

	backend B
}

// NewBatchNorm2D creates a batch norm layer over numFeatures channels.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, eps, momentum float32, backend B) *BatchNorm2D[B] {
	if numFeatures <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid num_features %d", numFeatures))
	}
	if eps <= 0 {
		panic(fmt.Sprintf("batchnorm2d: eps must be positive, got %g", eps))
	}
	if momentum < 0 || momentum > 1 {
		panic(fmt.Sprintf("batchnorm2d: momentum must be in [0, 1], got %g", momentum))
	}

	shape := tensor.Shape{numFeatures}
	return &BatchNorm2D[B]{
		numFeatures: numFeatures,
		eps:         eps,
		momentum:    momentum,
		training:    true,
		weight:      NewParameter("weight", Ones(shape, backend)),
		bias:        NewParameter("bias", Zeros(shape, backend)),
		runningMean: Zeros(shape, backend),
		runningVar:  Ones(shape, backend),
		backend:     backend,
	}
}

// Forward normalizes the input.
func (bn *BatchNorm2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("batchnorm2d: expected 4D input [N,C,H,W], got %dD", len(shape)))
	}
	if shape[1] != bn.numFeatures {
		panic(fmt.Sprintf("batchnorm2d: input channels %d != expected %d", shape[1], bn.numFeatures))
	}

	mean, variance := bn.runningMean.Raw(), bn.runningVar.Raw()
	if bn.training {
		n := shape[0] * shape[2] * shape[3]
		if n < 2 {
			panic(fmt.Sprintf("batchnorm2d: expected more than 1 value per channel when training, got input shape %v", shape))
		}
		mean, variance = bn.backend.ChannelMoments(input.Raw())
		bn.updateRunningStats(mean, variance, n)
	}

	out := bn.backend.BatchNorm2D(input.Raw(), mean, variance, bn.weight.Tensor().Raw(), bn.bias.Tensor().Raw(), bn.eps)
	return tensor.New[float32, B](out, bn.backend)
}

func (bn *BatchNorm2D[B]) updateRunningStats(mean, variance *tensor.RawTensor, n int) {
	m := bn.momentum
	batchMean := tensor.New[float32, B](mean, bn.backend)
	unbiased := tensor.New[float32, B](variance, bn.backend).MulScalar(float32(n) / float32(n-1))

	newMean := bn.runningMean.MulScalar(1 - m).Add(batchMean.MulScalar(m))
	newVar := bn.runningVar.MulScalar(1 - m).Add(unbiased.MulScalar(m))

	// Copy in place so tensors handed out by StateDict stay current.
	copy(bn.runningMean.Data(), newMean.Data())
	copy(bn.runningVar.Data(), newVar.Data())
	bn.batches++
}

// SetTraining switches between batch statistics (true) and running statistics (false).
func (bn *BatchNorm2D[B]) SetTraining(training bool) {
	bn.training = training
}

// Training reports whether the layer is in training mode.
func (bn *BatchNorm2D[B]) Training() bool {
	return bn.training
}

// Parameters returns [weight, bias]. Running statistics are buffers, not parameters.
func (bn *BatchNorm2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.weight, bn.bias}
}

// StateDict returns weight, bias, running_mean and running_var.
func (bn *BatchNorm2D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight":       bn.weight.Tensor().Raw(),
		"bias":         bn.bias.Tensor().Raw(),
		"running_mean": bn.runningMean.Raw(),
		"running_var":  bn.runningVar.Raw(),
	}
}

// LoadStateDict loads weight, bias and running statistics.
func (bn *BatchNorm2D[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return loadLeafStateDict(stateDict, map[string]*tensor.Tensor[float32, B]{
		"weight":       bn.weight.Tensor(),
		"bias":         bn.bias.Tensor(),
		"running_mean": bn.runningMean,
		"running_var":  bn.runningVar,
	})
}

// RunningMean returns the running mean buffer.
func (bn *BatchNorm2D[B]) RunningMean() *tensor.Tensor[float32, B] {
	return bn.runningMean
}

// RunningVar returns the running variance buffer.
func (bn *BatchNorm2D[B]) RunningVar() *tensor.Tensor[float32, B] {
	return bn.runningVar
}

// BatchesTracked returns how many training batches have updated the running statistics.
func (bn *BatchNorm2D[B]) BatchesTracked() int {
	return bn.batches
}

// String returns a description of the layer.
func (bn *BatchNorm2D[B]) String() string {
	return fmt.Sprintf("BatchNorm2D(%d, eps=%g, momentum=%g)", bn.numFeatures, bn.eps, bn.momentum)
}
