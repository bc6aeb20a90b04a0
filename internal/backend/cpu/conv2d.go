package cpu

import (
	"fmt"

	"github.com/born-ml/sepnet/internal/parallel"
	"github.com/born-ml/sepnet/internal/tensor"
)

// convGeometry holds the resolved dimensions of one Conv2D call.
type convGeometry struct {
	n, cIn, h, w   int
	cOut, kh, kw   int
	hOut, wOut     int
	cInG, cOutG    int // channels per group
	stride, pad    int
	dilation, grps int
}

// Conv2D performs a grouped, dilated 2D convolution using im2col + GEMM.
//
// Input shape:  [N, C_in, H, W]
// Kernel shape: [C_out, C_in/groups, K_h, K_w]
// Output shape: [N, C_out, H_out, W_out]
//
//	H_out = (H + 2*padding - dilation*(K_h-1) - 1)/stride + 1
//
// For every (image, group) pair the group's input channels are unfolded into
// a [C_in/groups * K_h * K_w, H_out * W_out] column matrix, and the group's
// slice of the kernel ([C_out/groups, C_in/groups * K_h * K_w], already
// contiguous in row-major order) is multiplied against it. The product lands
// directly in the output, which is laid out as [C_out/groups, H_out*W_out]
// per (image, group).
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, params tensor.Conv2DParams) *tensor.RawTensor {
	requireFloat32("conv2d", input, kernel)

	inputShape := input.Shape()
	kernelShape := kernel.Shape()
	require4D("conv2d", "input", inputShape)
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in/groups,K_h,K_w], got %dD", len(kernelShape)))
	}

	p := params.Normalize()
	g := convGeometry{
		n: inputShape[0], cIn: inputShape[1], h: inputShape[2], w: inputShape[3],
		cOut: kernelShape[0], kh: kernelShape[2], kw: kernelShape[3],
		stride: p.Stride, pad: p.Padding, dilation: p.Dilation, grps: p.Groups,
	}

	if g.cIn%g.grps != 0 || g.cOut%g.grps != 0 {
		panic(fmt.Sprintf("conv2d: channels in=%d out=%d not divisible by groups=%d", g.cIn, g.cOut, g.grps))
	}
	g.cInG = g.cIn / g.grps
	g.cOutG = g.cOut / g.grps
	if kernelShape[1] != g.cInG {
		panic(fmt.Sprintf("conv2d: kernel expects %d channels per group, input provides %d", kernelShape[1], g.cInG))
	}

	g.hOut = p.OutputSize(g.h, g.kh)
	g.wOut = p.OutputSize(g.w, g.kw)
	if g.hOut <= 0 || g.wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (input %dx%d, kernel %dx%d, %+v)",
			g.hOut, g.wOut, g.h, g.w, g.kh, g.kw, p))
	}

	output := cpu.newResult("conv2d", tensor.Shape{g.n, g.cOut, g.hOut, g.wOut})
	conv2dFloat32(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(), g, cpu.coarse)

	return output
}

func conv2dFloat32(out, in, kernel []float32, g convGeometry, cfg parallel.Config) {
	colRows := g.cInG * g.kh * g.kw
	colCols := g.hOut * g.wOut
	imageSize := g.h * g.w

	parallel.ForBatch(g.n, g.grps, func(n, grp int) {
		col := make([]float32, colRows*colCols)

		inStart := (n*g.cIn + grp*g.cInG) * imageSize
		im2colFloat32(col, in[inStart:inStart+g.cInG*imageSize], g)

		kStart := grp * g.cOutG * colRows
		outStart := (n*g.cOut + grp*g.cOutG) * colCols
		gemm(g.cOutG, colCols, colRows,
			kernel[kStart:kStart+g.cOutG*colRows],
			col,
			out[outStart:outStart+g.cOutG*colCols],
		)
	}, cfg)
}

// im2colFloat32 unfolds the channels of one group into col.
//
// Row (c*K_h + kh)*K_w + kw holds, for every output position (oh, ow), the
// input value under that kernel tap, or zero where the tap falls in padding.
func im2colFloat32(col, in []float32, g convGeometry) {
	colCols := g.hOut * g.wOut
	row := 0

	for c := 0; c < g.cInG; c++ {
		plane := in[c*g.h*g.w : (c+1)*g.h*g.w]
		for kh := 0; kh < g.kh; kh++ {
			for kw := 0; kw < g.kw; kw++ {
				dst := col[row*colCols : (row+1)*colCols]
				for oh := 0; oh < g.hOut; oh++ {
					ih := oh*g.stride - g.pad + kh*g.dilation
					rowDst := dst[oh*g.wOut : (oh+1)*g.wOut]
					if ih < 0 || ih >= g.h {
						clear(rowDst)
						continue
					}
					for ow := 0; ow < g.wOut; ow++ {
						iw := ow*g.stride - g.pad + kw*g.dilation
						if iw >= 0 && iw < g.w {
							rowDst[ow] = plane[ih*g.w+iw]
						} else {
							rowDst[ow] = 0
						}
					}
				}
				row++
			}
		}
	}
}
