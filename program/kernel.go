package program

import "github.com/sarchlab/manycore/fabric"

// A Context is the view a kernel has of the tile it runs on: word access to
// the tile's own scratchpad plus the coordinates set up by the lifecycle
// controller. Shared-bank addresses are not reachable through a Context;
// shared memory is managed by the host.
type Context interface {
	// Coord returns the physical coordinate of the executing tile.
	Coord() fabric.Coordinate

	// Origin returns the group origin assigned before the program was
	// loaded.
	Origin() fabric.Coordinate

	// Symbol resolves a name from the image the tile is running.
	Symbol(name string) (fabric.Eva, error)

	// Load reads one word from a tile-local address.
	Load(addr fabric.Eva) uint32

	// Store writes one word to a tile-local address.
	Store(addr fabric.Eva, data uint32)
}

// A Kernel is the compute function a tile executes once it is unfrozen. It
// runs to completion; the tile then emits its completion token.
type Kernel func(ctx Context)

// WordOffset returns the byte offset of the i-th word of an array.
func WordOffset(i uint32) fabric.Eva {
	return fabric.Eva(i * fabric.WordBytes)
}
