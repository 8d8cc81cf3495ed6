// Package fabric defines the commonly used data structures for the manycore
// fabric: tile coordinates, tile-group regions, accelerator addresses, and
// the request/response packet formats of the host transport.
package fabric

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
)

// A Coordinate identifies one physical tile in the fabric mesh. Row 0 is
// reserved for I/O tiles and must never receive a program load.
type Coordinate struct {
	X, Y int
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Tile is the driver-facing handle of one tile or memory bank in a device.
type Tile interface {
	// Port returns the port that the host transport delivers packets to.
	Port() sim.Port

	// SetHostPort tells the tile where to send completion packets.
	SetHostPort(port sim.RemotePort)
}

// A Device is a manycore fabric that the driver can control.
type Device interface {
	Geometry() Geometry

	// GetTile returns the tile at the given mesh coordinate. Row 0 (the
	// I/O row) is part of the mesh.
	GetTile(x, y int) Tile

	// GetBank returns the shared memory bank with the given x coordinate.
	// Banks live one row beyond the compute mesh.
	GetBank(x int) Tile
}
