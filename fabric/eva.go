package fabric

import "fmt"

// An Eva is an address in the flat address space understood by the fabric.
// The same integer means different things depending on bit 31: when it is
// clear, the Eva is a byte offset into the local scratchpad of whichever
// tile a transfer explicitly targets; when it is set, the Eva refers to a
// shared memory bank, with bits 29-30 giving the bank's x coordinate and
// the remaining low bits the byte offset inside the bank. Callers must
// classify an Eva before using it; a resolved symbol may legitimately be
// either kind.
type Eva uint32

const (
	// WordBytes is the payload width of one transport packet.
	WordBytes = 4

	evaSharedBit  Eva = 1 << 31
	evaBankShift      = 29
	evaBankMask   Eva = 0x3 << evaBankShift
	evaOffsetMask Eva = (1 << evaBankShift) - 1

	// MaxBanks is the number of bank x coordinates the Eva encoding can
	// express.
	MaxBanks = 4
)

// SharedEva builds the Eva of a byte offset inside the given bank.
func SharedEva(bank int, offset uint32) Eva {
	return evaSharedBit | Eva(bank)<<evaBankShift | (Eva(offset) & evaOffsetMask)
}

// IsShared reports whether the Eva refers to shared-bank memory.
func (e Eva) IsShared() bool {
	return e&evaSharedBit != 0
}

// WordAddr converts the byte offset into the word address placed in a
// packet. The transport is word-addressed, not byte-addressed.
func (e Eva) WordAddr() uint32 {
	return uint32(e&evaOffsetMask) >> 2
}

func (e Eva) String() string {
	return fmt.Sprintf("0x%08x", uint32(e))
}

// Geometry describes the shape of one device: a Width x Height mesh of
// tiles, with row 0 reserved for I/O and the shared memory banks one row
// beyond the mesh.
type Geometry struct {
	Width, Height int
	NumBanks      int
}

// BankRow returns the y coordinate of the shared memory banks.
func (g Geometry) BankRow() int {
	return g.Height
}

// ContainsTile reports whether the coordinate names a tile inside the mesh.
func (g Geometry) ContainsTile(c Coordinate) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// A Location is the physical target an Eva resolves to.
type Location struct {
	// Shared is true when the Eva addresses a memory bank rather than a
	// tile-local scratchpad.
	Shared bool

	// Bank is the coordinate of the bank. Only meaningful when Shared.
	Bank Coordinate

	// Offset is the byte offset inside the target memory, with any bank
	// bits stripped.
	Offset Eva
}

// Classify inspects the Eva and determines the memory it targets. It must
// run before every transfer: local and shared addresses need different
// destination coordinates even though the offset math is the same.
func (g Geometry) Classify(e Eva) Location {
	if !e.IsShared() {
		return Location{Offset: e}
	}

	return Location{
		Shared: true,
		Bank: Coordinate{
			X: int((e & evaBankMask) >> evaBankShift),
			Y: g.BankRow(),
		},
		Offset: e & evaOffsetMask,
	}
}
