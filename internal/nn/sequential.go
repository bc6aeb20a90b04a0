package nn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/sepnet/internal/tensor"
)

// Sequential chains modules, feeding each output into the next.
//
// Children are named by position ("0", "1", ...), so state dict keys look
// like "0.weight" or "1.running_mean".
//
// Example:
//
//	block := nn.NewSequential[B](
//	    nn.NewConv2D(cfg, backend, rng),
//	    nn.NewBatchNorm2D[B](16, nn.DefaultBatchNormEps, nn.DefaultBatchNormMomentum, backend),
//	    nn.NewReLU[B](),
//	)
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a Sequential from modules in forward order.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{modules: modules}
}

// Add appends a module.
func (s *Sequential[B]) Add(m Module[B]) {
	s.modules = append(s.modules, m)
}

// Len returns the number of modules.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Module returns the i-th module.
func (s *Sequential[B]) Module(i int) Module[B] {
	return s.modules[i]
}

// Forward runs the modules in order.
func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x := input
	for _, m := range s.modules {
		x = m.Forward(x)
	}
	return x
}

// Children returns the modules named by their index.
func (s *Sequential[B]) Children() []Named[B] {
	children := make([]Named[B], len(s.modules))
	for i, m := range s.modules {
		children[i] = Named[B]{Name: strconv.Itoa(i), Module: m}
	}
	return children
}

// Parameters returns all parameters in forward order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	return childParameters(s.Children())
}

// StateDict returns "<index>.<key>" entries.
func (s *Sequential[B]) StateDict() map[string]*tensor.RawTensor {
	return childStateDict(s.Children())
}

// LoadStateDict loads every child.
func (s *Sequential[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return loadChildStateDict(s.Children(), stateDict)
}

func (s *Sequential[B]) String() string {
	var b strings.Builder
	b.WriteString("Sequential(\n")
	for i, m := range s.modules {
		fmt.Fprintf(&b, "  (%d): %s\n", i, indent(fmt.Sprint(m)))
	}
	b.WriteString(")")
	return b.String()
}

// indent shifts every line after the first by two spaces.
func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
