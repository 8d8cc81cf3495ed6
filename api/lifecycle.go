package api

import (
	"fmt"

	"github.com/sarchlab/manycore/fabric"
	"github.com/sarchlab/manycore/program"
)

// tileStatus tracks the lifecycle of one tile. The underlying transport
// leaves out-of-order freeze/unfreeze undefined, so the driver tracks state
// explicitly and rejects out-of-order calls instead of relying on transport
// behavior.
type tileStatus int

const (
	tileUninitialized tileStatus = iota
	tileFrozen
	tileLoaded
	tileRunning
	tileCompleted
)

func (s tileStatus) String() string {
	switch s {
	case tileUninitialized:
		return "uninitialized"
	case tileFrozen:
		return "frozen"
	case tileLoaded:
		return "loaded"
	case tileRunning:
		return "running"
	case tileCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// LoadGroup brings every tile of the region to the Loaded state: freeze,
// declare the region origin, load the image, in row-major order. Repeating
// LoadGroup without an intervening RunGroup succeeds deterministically;
// already-frozen tiles are not frozen twice.
func (d *driverImpl) LoadGroup(
	image *program.Image,
	region fabric.Region,
) error {
	if err := d.checkGroupTarget(region); err != nil {
		return err
	}

	for _, c := range region.Coordinates() {
		if c.Y == 0 {
			return fmt.Errorf(
				"cannot load program onto I/O-row tile %s: %w",
				c, fabric.ErrInvalidTarget)
		}

		if d.tiles[c] == tileRunning {
			return fmt.Errorf("tile %s is %s: %w",
				c, d.tiles[c], fabric.ErrTileState)
		}
	}

	for _, c := range region.Coordinates() {
		if err := d.loadOneTile(image, region.Origin, c); err != nil {
			return err
		}
	}

	return nil
}

func (d *driverImpl) loadOneTile(
	image *program.Image,
	origin, c fabric.Coordinate,
) error {
	if d.tiles[c] != tileFrozen && d.tiles[c] != tileLoaded {
		if err := d.controlReq(c, fabric.OpFreeze, 0, "freeze"); err != nil {
			return err
		}
		d.tiles[c] = tileFrozen
	}

	originWord := uint32(origin.X)<<16 | uint32(origin.Y)&0xffff
	err := d.controlReq(c, fabric.OpSetOrigin, originWord, "set group origin")
	if err != nil {
		return err
	}

	if err := d.loadReq(c, image); err != nil {
		return err
	}
	d.tiles[c] = tileLoaded

	return nil
}

// RunGroup unfreezes every tile of the region. This is the only transition
// from loaded/frozen to running; the caller is responsible for sequencing
// load, transfer-in, and run.
func (d *driverImpl) RunGroup(region fabric.Region) error {
	if err := d.checkGroupTarget(region); err != nil {
		return err
	}

	for _, c := range region.Coordinates() {
		if d.tiles[c] != tileLoaded {
			return fmt.Errorf("cannot run tile %s in state %s: %w",
				c, d.tiles[c], fabric.ErrTileState)
		}
	}

	for _, c := range region.Coordinates() {
		if err := d.controlReq(c, fabric.OpUnfreeze, 0, "unfreeze"); err != nil {
			return err
		}
		d.tiles[c] = tileRunning
	}

	return nil
}

func (d *driverImpl) checkGroupTarget(region fabric.Region) error {
	if d.device == nil {
		return fmt.Errorf("no device registered: %w",
			fabric.ErrTransportUnavailable)
	}

	if region.NumTiles() == 0 {
		return fmt.Errorf("empty tile group %s: %w",
			region, fabric.ErrInvalidTarget)
	}

	g := d.device.Geometry()
	for _, c := range region.Coordinates() {
		if !g.ContainsTile(c) {
			return fmt.Errorf("tile %s is outside the %dx%d mesh: %w",
				c, g.Width, g.Height, fabric.ErrInvalidTarget)
		}
	}

	return nil
}

// controlReq sends one control packet to a tile and blocks for its ack.
func (d *driverImpl) controlReq(
	c fabric.Coordinate,
	op fabric.Op,
	data uint32,
	what string,
) error {
	id := d.loadID()
	tile := d.device.GetTile(c.X, c.Y)

	x := newTransaction()
	x.pending = append(x.pending, fabric.ReqPacketBuilder{}.
		WithSrc(d.port.AsRemote()).
		WithDst(tile.Port().AsRemote()).
		WithDstCoord(c).
		WithSrcCoord(hostCoord).
		WithOp(op).
		WithData(data).
		WithLoadID(id).
		Build())
	x.inflight[id] = reqInfo{kind: kindControl, coord: c, what: what}

	return d.execute(x)
}

// loadReq ships the image to one tile and blocks for its ack.
func (d *driverImpl) loadReq(c fabric.Coordinate, image *program.Image) error {
	id := d.loadID()
	tile := d.device.GetTile(c.X, c.Y)

	x := newTransaction()
	x.pending = append(x.pending, program.LoadReqBuilder{}.
		WithSrc(d.port.AsRemote()).
		WithDst(tile.Port().AsRemote()).
		WithDstCoord(c).
		WithImage(image).
		WithLoadID(id).
		Build())
	x.inflight[id] = reqInfo{kind: kindControl, coord: c, what: "load image"}

	return d.execute(x)
}
