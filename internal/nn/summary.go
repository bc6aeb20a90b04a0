package nn

import (
	"fmt"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/born-ml/sepnet/internal/tensor"
)

// LayerSummary describes one leaf module visited during Summarize.
type LayerSummary struct {
	Path        string       // dotted path, e.g. "convblock1.0.depthwise"
	Type        string       // module type name without type arguments
	OutputShape tensor.Shape // shape produced for the summarized input
	NumParams   int          // trainable scalars owned by this leaf
}

// Summary is the result of Summarize.
type Summary struct {
	InputShape  tensor.Shape
	OutputShape tensor.Shape
	Layers      []LayerSummary
	TotalParams int
}

// Summarize runs input through m, descending into containers, and records
// every leaf module's output shape and parameter count.
//
// The forward pass runs in m's current mode; callers that must not touch
// batch norm running statistics should switch to evaluation first.
func Summarize[B tensor.Backend](m Module[B], input *tensor.Tensor[float32, B]) *Summary {
	s := &Summary{InputShape: input.Shape().Clone()}
	out := summarize(s, "", m, input)
	s.OutputShape = out.Shape().Clone()
	return s
}

func summarize[B tensor.Backend](s *Summary, path string, m Module[B], x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if c, ok := m.(Container[B]); ok {
		for _, child := range c.Children() {
			x = summarize(s, joinPath(path, child.Name), child.Module, x)
		}
		return x
	}

	out := m.Forward(x)
	n := CountParameters(m)
	s.Layers = append(s.Layers, LayerSummary{
		Path:        path,
		Type:        typeName(m),
		OutputShape: out.Shape().Clone(),
		NumParams:   n,
	})
	s.TotalParams += n
	return out
}

// typeName returns the bare type name, e.g. "Conv2D" for *Conv2D[cpu.CPUBackend].
func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

// String renders the summary as an aligned table.
func (s *Summary) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Layer\tType\tOutput Shape\tParams")
	for _, l := range s.Layers {
		fmt.Fprintf(w, "%s\t%s\t%v\t%d\n", l.Path, l.Type, l.OutputShape, l.NumParams)
	}
	_ = w.Flush()
	fmt.Fprintf(&b, "Input shape: %v\n", s.InputShape)
	fmt.Fprintf(&b, "Output shape: %v\n", s.OutputShape)
	fmt.Fprintf(&b, "Total params: %d\n", s.TotalParams)
	return b.String()
}
