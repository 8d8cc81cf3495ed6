package kernels

import (
	"fmt"

	"github.com/sarchlab/manycore/fabric"
	"github.com/sarchlab/manycore/program"
)

// IncrWords is the array length of the increment program.
const IncrWords = 4

// IncrImage builds the elementwise-increment program: tileDataWr[i] =
// tileDataRd[i] + 1 over a fixed 4-word array. It also lays out a 4-word
// array named data in shared bank 0, giving the host a shared-memory
// destination to exercise.
func IncrImage() (*program.Image, error) {
	return program.NewBuilder("incr").
		WithLocalArray("tileDataRd", IncrWords).
		WithLocalArray("tileDataWr", IncrWords).
		WithSharedArray("data", 0, IncrWords).
		WithKernel(incr).
		Build()
}

func incr(ctx program.Context) {
	rd := mustSymbol(ctx, "tileDataRd")
	wr := mustSymbol(ctx, "tileDataWr")

	for i := uint32(0); i < IncrWords; i++ {
		off := program.WordOffset(i)
		ctx.Store(wr+off, ctx.Load(rd+off)+1)
	}
}

func mustSymbol(ctx program.Context, name string) fabric.Eva {
	addr, err := ctx.Symbol(name)
	if err != nil {
		panic(fmt.Sprintf("kernel image is missing %q: %v", name, err))
	}

	return addr
}
