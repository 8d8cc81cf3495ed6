// The vvadd sample drives the full job sequence on a simulated fabric:
// load a tile group, transfer per-tile input slices in, run, wait for the
// completion barrier, transfer results out, and verify them.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/manycore/api"
	"github.com/sarchlab/manycore/config"
	"github.com/sarchlab/manycore/fabric"
	"github.com/sarchlab/manycore/kernels"
)

var (
	dim      = flag.Int("dim", 160, "number of elements in each input vector")
	width    = flag.Int("width", 4, "mesh width")
	height   = flag.Int("height", 4, "mesh height, including the I/O row")
	deadline = flag.Float64("deadline", 1e-3,
		"completion deadline in virtual seconds, 0 waits forever")
	seed = flag.Int64("seed", 1, "seed for the input vectors")
)

func main() {
	flag.Parse()

	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Driver")

	device := config.MakeDeviceBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithWidth(*width).
		WithHeight(*height).
		Build("Device")

	driver.RegisterDevice(device)

	// Row 0 is the I/O row; the group covers the rest of the mesh.
	region := fabric.Region{
		Origin: fabric.Coordinate{X: 0, Y: 1},
		Width:  *width,
		Height: *height - 1,
	}

	rng := rand.New(rand.NewSource(*seed))
	src0 := make([]uint32, *dim)
	src1 := make([]uint32, *dim)
	for i := range src0 {
		src0[i] = uint32(rng.Intn(100))
		src1[i] = uint32(rng.Intn(100))
	}

	image, err := kernels.VVAddImage(*dim)
	if err != nil {
		fatalf("building image: %v", err)
	}

	if err := driver.LoadGroup(image, region); err != nil {
		fatalf("loading group: %v", err)
	}

	// Each tile gets its own slice of the vectors; the last tile also
	// takes the remainder.
	slices := region.Partition(*dim)
	for _, s := range slices {
		err := driver.SymbolCopy(api.HostToDevice, s.Tile, image,
			"g_src0", wordsToBytes(src0[s.Offset:s.Offset+s.Length]))
		if err != nil {
			fatalf("pushing g_src0 to %s: %v", s.Tile, err)
		}

		err = driver.SymbolCopy(api.HostToDevice, s.Tile, image,
			"g_src1", wordsToBytes(src1[s.Offset:s.Offset+s.Length]))
		if err != nil {
			fatalf("pushing g_src1 to %s: %v", s.Tile, err)
		}

		err = driver.SymbolCopy(api.HostToDevice, s.Tile, image,
			"g_size", wordsToBytes([]uint32{uint32(s.Length)}))
		if err != nil {
			fatalf("pushing g_size to %s: %v", s.Tile, err)
		}
	}

	if err := driver.RunGroup(region); err != nil {
		fatalf("running group: %v", err)
	}

	err = driver.WaitGroup(region, sim.VTimeInSec(*deadline))
	if err != nil {
		fatalf("waiting for group: %v", err)
	}

	dest := make([]uint32, *dim)
	for _, s := range slices {
		buf := make([]byte, s.Length*fabric.WordBytes)
		err := driver.SymbolCopy(api.DeviceToHost, s.Tile, image,
			"g_dest", buf)
		if err != nil {
			fatalf("pulling g_dest from %s: %v", s.Tile, err)
		}

		copy(dest[s.Offset:], bytesToWords(buf))
	}

	verify(src0, src1, dest)
	atexit.Exit(0)
}

func verify(src0, src1, dest []uint32) {
	mismatches := table.NewWriter()
	mismatches.SetOutputMirror(os.Stdout)
	mismatches.AppendHeader(table.Row{"Index", "Expected", "Actual"})

	bad := 0
	for i := range dest {
		want := src0[i] + src1[i]
		if dest[i] != want {
			mismatches.AppendRow(table.Row{i, want, dest[i]})
			bad++
		}
	}

	if bad > 0 {
		mismatches.Render()
		fatalf("%d of %d elements wrong", bad, len(dest))
	}

	fmt.Printf("vvadd: all %d elements correct\n", len(dest))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	atexit.Exit(1)
}

func wordsToBytes(words []uint32) []byte {
	buf := make([]byte, len(words)*fabric.WordBytes)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*fabric.WordBytes:], w)
	}

	return buf
}

func bytesToWords(buf []byte) []uint32 {
	words := make([]uint32, len(buf)/fabric.WordBytes)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(buf[i*fabric.WordBytes:])
	}

	return words
}
