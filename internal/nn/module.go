// Package nn implements neural network modules for the sepnet framework.
//
// This package provides building blocks for constructing convolutional
// image classifiers:
//   - Module interface: base interface for all NN components
//   - Container: modules built from an ordered list of named children
//   - Parameter: named trainable tensors
//   - Layers: Conv2D, DepthwiseSeparableConv, BatchNorm2D, Dropout, ReLU,
//     AdaptiveAvgPool2D, Flatten, Linear, LogSoftmax, Sequential
//   - Summary: per-layer output shapes and parameter counts
//
// Design follows PyTorch's nn.Module, adapted for Go generics.
package nn

import (
	"fmt"
	"sort"
	"strings"

	"github.com/born-ml/sepnet/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	// Shape mismatches panic with a message prefixed by the layer name.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module, including
	// those of nested modules. Modules without weights return nil.
	Parameters() []*Parameter[B]

	// StateDict returns parameters and persistent buffers (such as batch norm
	// running statistics) keyed by dotted name.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict copies values from a state dictionary into the module.
	// Missing, unexpected or mis-shaped entries are reported as errors.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}

// ModeSetter is implemented by modules that behave differently during
// training and evaluation (BatchNorm2D, Dropout).
type ModeSetter interface {
	SetTraining(training bool)
	Training() bool
}

// Named pairs a child module with its name inside a container.
type Named[B tensor.Backend] struct {
	Name   string
	Module Module[B]
}

// Container is a module composed of ordered, named children.
//
// A container's Forward must be equivalent to feeding the input through its
// children in order. Summary and SetTraining rely on this.
type Container[B tensor.Backend] interface {
	Module[B]
	Children() []Named[B]
}

// SetTraining switches m and every module below it between training and
// evaluation behavior.
func SetTraining[B tensor.Backend](m Module[B], training bool) {
	if ms, ok := m.(ModeSetter); ok {
		ms.SetTraining(training)
	}
	if c, ok := m.(Container[B]); ok {
		for _, child := range c.Children() {
			SetTraining(child.Module, training)
		}
	}
}

// NamedParameter is a parameter together with its dotted path.
type NamedParameter[B tensor.Backend] struct {
	Path      string
	Parameter *Parameter[B]
}

// NamedParameters lists every parameter below m with its dotted path,
// in forward order.
func NamedParameters[B tensor.Backend](m Module[B]) []NamedParameter[B] {
	var out []NamedParameter[B]
	var walk func(prefix string, m Module[B])
	walk = func(prefix string, m Module[B]) {
		if c, ok := m.(Container[B]); ok {
			for _, child := range c.Children() {
				walk(joinPath(prefix, child.Name), child.Module)
			}
			return
		}
		for _, p := range m.Parameters() {
			out = append(out, NamedParameter[B]{Path: joinPath(prefix, p.Name()), Parameter: p})
		}
	}
	walk("", m)
	return out
}

// CountParameters returns the number of trainable scalars in m.
func CountParameters[B tensor.Backend](m Module[B]) int {
	total := 0
	for _, p := range m.Parameters() {
		total += p.NumElements()
	}
	return total
}

// childParameters concatenates the parameters of children in order.
func childParameters[B tensor.Backend](children []Named[B]) []*Parameter[B] {
	var params []*Parameter[B]
	for _, child := range children {
		params = append(params, child.Module.Parameters()...)
	}
	return params
}

// childStateDict merges children's state dicts under "<name>." prefixes.
func childStateDict[B tensor.Backend](children []Named[B]) map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for _, child := range children {
		for key, raw := range child.Module.StateDict() {
			stateDict[child.Name+"."+key] = raw
		}
	}
	return stateDict
}

// loadChildStateDict routes "<name>.<rest>" entries to the named child.
// Keys that match no child are reported as unexpected.
func loadChildStateDict[B tensor.Backend](children []Named[B], stateDict map[string]*tensor.RawTensor) error {
	routed := make(map[string]map[string]*tensor.RawTensor, len(children))
	for _, child := range children {
		routed[child.Name] = make(map[string]*tensor.RawTensor)
	}

	var unexpected []string
	for key, raw := range stateDict {
		name, rest, ok := strings.Cut(key, ".")
		sub, known := routed[name]
		if !ok || !known {
			unexpected = append(unexpected, key)
			continue
		}
		sub[rest] = raw
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return fmt.Errorf("unexpected keys in state dict: %s", strings.Join(unexpected, ", "))
	}

	for _, child := range children {
		if err := child.Module.LoadStateDict(routed[child.Name]); err != nil {
			return fmt.Errorf("%s: %w", child.Name, err)
		}
	}
	return nil
}

// loadLeafStateDict copies the named entries into dst and rejects extras.
func loadLeafStateDict[B tensor.Backend](stateDict map[string]*tensor.RawTensor, dst map[string]*tensor.Tensor[float32, B]) error {
	for key := range stateDict {
		if _, ok := dst[key]; !ok {
			return fmt.Errorf("unexpected key %q in state dict", key)
		}
	}

	keys := make([]string, 0, len(dst))
	for key := range dst {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw, ok := stateDict[key]
		if !ok {
			return fmt.Errorf("missing %s in state dict", key)
		}
		target := dst[key]
		if !raw.Shape().Equal(target.Shape()) {
			return fmt.Errorf("%s shape mismatch: expected %v, got %v", key, target.Shape(), raw.Shape())
		}
		if raw.DType() != tensor.Float32 {
			return fmt.Errorf("%s dtype mismatch: expected float32, got %v", key, raw.DType())
		}
		copy(target.Data(), raw.AsFloat32())
	}
	return nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
