// Package program defines program images: the symbol tables, data
// segments, and kernels that are loaded onto tiles.
package program

import (
	"fmt"

	"github.com/sarchlab/manycore/fabric"
)

// DmemBase is the byte address where a tile's data region starts inside
// its local scratchpad.
const DmemBase fabric.Eva = 0x1000

// A Symbol is a named location in the accelerator address space.
type Symbol struct {
	Name  string
	Addr  fabric.Eva
	Words int
}

// A Segment is a run of initialized words at a tile-local address.
type Segment struct {
	Base fabric.Eva
	Data []uint32
}

// An Image is an executable blob plus a symbol table mapping names to
// addresses in the flat accelerator address space. Images are owned by the
// orchestration layer and read-only afterwards.
type Image struct {
	name     string
	symbols  map[string]Symbol
	segments []Segment
	kernel   Kernel
}

// Name returns the name of the image.
func (i *Image) Name() string {
	return i.name
}

// Symbol resolves a variable name to its address. An unknown name fails
// with fabric.ErrSymbolNotFound; it is never defaulted to address zero.
// Resolution is a pure table lookup, so repeated calls return the same
// address.
func (i *Image) Symbol(name string) (fabric.Eva, error) {
	sym, ok := i.symbols[name]
	if !ok {
		return 0, fmt.Errorf("image %q has no symbol %q: %w",
			i.name, name, fabric.ErrSymbolNotFound)
	}

	return sym.Addr, nil
}

// SymbolWords returns the allocated word length of a symbol.
func (i *Image) SymbolWords(name string) (int, error) {
	sym, ok := i.symbols[name]
	if !ok {
		return 0, fmt.Errorf("image %q has no symbol %q: %w",
			i.name, name, fabric.ErrSymbolNotFound)
	}

	return sym.Words, nil
}

// Segments returns the tile-local data segments the loader must place into
// a tile's scratchpad. Shared-bank symbols have no segment; their content
// is managed by the host through the transfer engine.
func (i *Image) Segments() []Segment {
	return i.segments
}

// Kernel returns the compute kernel carried by the image.
func (i *Image) Kernel() Kernel {
	return i.kernel
}

type symbolDef struct {
	name   string
	words  int
	bank   int
	shared bool
	data   []uint32
}

// A Builder lays out program images. Local symbols are allocated
// word-granular from the scratchpad arena starting at DmemBase; shared
// symbols are allocated inside the requested bank's address space.
type Builder struct {
	name   string
	defs   []symbolDef
	kernel Kernel
}

// NewBuilder creates a Builder for an image with the given name.
func NewBuilder(name string) Builder {
	return Builder{name: name}
}

// WithLocalArray allocates a zero-initialized tile-local array.
func (b Builder) WithLocalArray(name string, words int) Builder {
	b.defs = append(b.defs, symbolDef{name: name, words: words})
	return b
}

// WithLocalData allocates a tile-local array initialized with data.
func (b Builder) WithLocalData(name string, data []uint32) Builder {
	b.defs = append(b.defs, symbolDef{
		name:  name,
		words: len(data),
		data:  data,
	})

	return b
}

// WithSharedArray allocates an array inside the given shared memory bank.
func (b Builder) WithSharedArray(name string, bank, words int) Builder {
	b.defs = append(b.defs, symbolDef{
		name:   name,
		words:  words,
		bank:   bank,
		shared: true,
	})

	return b
}

// WithKernel sets the compute kernel of the image.
func (b Builder) WithKernel(k Kernel) Builder {
	b.kernel = k
	return b
}

// Build lays out all symbols and creates the image.
func (b Builder) Build() (*Image, error) {
	img := &Image{
		name:    b.name,
		symbols: make(map[string]Symbol),
		kernel:  b.kernel,
	}

	localCursor := DmemBase
	var bankCursor [fabric.MaxBanks]uint32

	for _, def := range b.defs {
		if def.words <= 0 {
			return nil, fmt.Errorf(
				"symbol %q has non-positive size %d", def.name, def.words)
		}

		if _, dup := img.symbols[def.name]; dup {
			return nil, fmt.Errorf("duplicate symbol %q", def.name)
		}

		var addr fabric.Eva
		if def.shared {
			if def.bank < 0 || def.bank >= fabric.MaxBanks {
				return nil, fmt.Errorf(
					"symbol %q targets bank %d, want [0, %d)",
					def.name, def.bank, fabric.MaxBanks)
			}

			addr = fabric.SharedEva(def.bank, bankCursor[def.bank])
			bankCursor[def.bank] += uint32(def.words) * fabric.WordBytes
		} else {
			addr = localCursor
			localCursor += fabric.Eva(def.words) * fabric.WordBytes

			seg := Segment{Base: addr, Data: make([]uint32, def.words)}
			copy(seg.Data, def.data)
			img.segments = append(img.segments, seg)
		}

		img.symbols[def.name] = Symbol{
			Name:  def.name,
			Addr:  addr,
			Words: def.words,
		}
	}

	return img, nil
}
