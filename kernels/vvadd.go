// Package kernels holds the device programs used by the samples and the
// end-to-end tests. The kernels themselves are trivial; they exist to
// exercise the host-side load/transfer/run/wait path.
package kernels

import (
	"github.com/sarchlab/manycore/program"
)

// VVAddImage builds the vector-vector-add program: g_dest[i] = g_src0[i] +
// g_src1[i] for i < g_size. The host writes g_src0, g_src1, and g_size
// before running, and reads g_dest back after the completion barrier. dim
// is the allocated capacity of the three arrays; the host may run any
// g_size up to dim, which is how per-tile slices of different lengths
// share one image.
func VVAddImage(dim int) (*program.Image, error) {
	return program.NewBuilder("vvadd").
		WithLocalArray("g_src0", dim).
		WithLocalArray("g_src1", dim).
		WithLocalArray("g_dest", dim).
		WithLocalData("g_size", []uint32{uint32(dim)}).
		WithKernel(vvadd).
		Build()
}

func vvadd(ctx program.Context) {
	src0 := mustSymbol(ctx, "g_src0")
	src1 := mustSymbol(ctx, "g_src1")
	dest := mustSymbol(ctx, "g_dest")
	size := ctx.Load(mustSymbol(ctx, "g_size"))

	for i := uint32(0); i < size; i++ {
		off := program.WordOffset(i)
		ctx.Store(dest+off, ctx.Load(src0+off)+ctx.Load(src1+off))
	}
}
