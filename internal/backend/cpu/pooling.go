package cpu

import (
	"fmt"

	"github.com/born-ml/sepnet/internal/parallel"
	"github.com/born-ml/sepnet/internal/tensor"
)

// AdaptiveAvgPool2D averages each channel into an outH x outW grid.
//
// Output bin (i, j) covers input rows [floor(i*H/outH), ceil((i+1)*H/outH))
// and the analogous column range, so bins may overlap when H is not a
// multiple of outH. outH = outW = 1 is global average pooling.
func (cpu *CPUBackend) AdaptiveAvgPool2D(input *tensor.RawTensor, outH, outW int) *tensor.RawTensor {
	requireFloat32("adaptive_avg_pool2d", input)

	shape := input.Shape()
	require4D("adaptive_avg_pool2d", "input", shape)
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("adaptive_avg_pool2d: invalid output size %dx%d", outH, outW))
	}

	n, c, h, w := shape[0], shape[1], shape[2], shape[3]
	output := cpu.newResult("adaptive_avg_pool2d", tensor.Shape{n, c, outH, outW})

	src := input.AsFloat32()
	dst := output.AsFloat32()

	parallel.ForBatch(n, c, func(b, ch int) {
		plane := src[(b*c+ch)*h*w : (b*c+ch+1)*h*w]
		outPlane := dst[(b*c+ch)*outH*outW : (b*c+ch+1)*outH*outW]

		for i := 0; i < outH; i++ {
			h0, h1 := adaptiveRange(i, h, outH)
			for j := 0; j < outW; j++ {
				w0, w1 := adaptiveRange(j, w, outW)
				var sum float64
				for y := h0; y < h1; y++ {
					for x := w0; x < w1; x++ {
						sum += float64(plane[y*w+x])
					}
				}
				outPlane[i*outW+j] = float32(sum / float64((h1-h0)*(w1-w0)))
			}
		}
	}, cpu.coarse)

	return output
}

// adaptiveRange returns the half-open input range pooled into output index i.
func adaptiveRange(i, in, out int) (start, end int) {
	start = (i * in) / out
	end = ((i+1)*in + out - 1) / out
	return start, end
}
