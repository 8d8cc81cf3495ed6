package api

import (
	"fmt"
	"sort"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/manycore/fabric"
)

// waitState is the barrier for one WaitGroup call: the set of tiles still
// owing a completion token. Tokens may arrive in any tile order; the fabric
// does not order them.
type waitState struct {
	region    fabric.Region
	remaining map[fabric.Coordinate]bool
	deadline  sim.VTimeInSec
	err       error
}

func (w *waitState) absorb(c fabric.Coordinate, now sim.VTimeInSec) {
	if w.err != nil {
		return
	}

	if !w.remaining[c] {
		w.err = fmt.Errorf("token from tile %s: %w",
			c, fabric.ErrUnexpectedToken)
		return
	}

	// A token past the deadline no longer counts; the tile is reported
	// as timed out.
	if w.deadline > 0 && now > w.deadline {
		return
	}

	delete(w.remaining, c)
}

// WaitGroup blocks until every tile of the region has emitted exactly one
// completion token. Every token is consumed exactly once and never
// retained. A deadline of zero reproduces the unbounded wait of the
// original hardware flow; with a deadline, missing tiles fail the call
// with fabric.ErrCompletionTimeout.
func (d *driverImpl) WaitGroup(
	region fabric.Region,
	deadline sim.VTimeInSec,
) error {
	if err := d.checkGroupTarget(region); err != nil {
		return err
	}

	for _, c := range region.Coordinates() {
		if d.tiles[c] != tileRunning {
			return fmt.Errorf("cannot wait on tile %s in state %s: %w",
				c, d.tiles[c], fabric.ErrTileState)
		}
	}

	w := &waitState{
		region:    region,
		remaining: make(map[fabric.Coordinate]bool, region.NumTiles()),
		deadline:  deadline,
	}
	for _, c := range region.Coordinates() {
		w.remaining[c] = true
	}

	// Tokens that raced ahead of this call are consumed first, judged at
	// the time they actually arrived rather than the time of this call.
	buffered := d.tokens
	d.tokens = nil
	for _, tok := range buffered {
		w.absorb(tok.coord, tok.at)
	}

	d.wait = w
	if len(w.remaining) > 0 && w.err == nil {
		d.TickLater()
		if err := d.Engine.Run(); err != nil {
			d.wait = nil
			return fmt.Errorf("simulation failed: %v: %w",
				err, fabric.ErrTransportUnavailable)
		}
	}
	d.wait = nil

	if w.err != nil {
		return w.err
	}

	if len(w.remaining) > 0 {
		return fmt.Errorf("tiles %v never completed: %w",
			sortedCoords(w.remaining), fabric.ErrCompletionTimeout)
	}

	for _, c := range region.Coordinates() {
		d.tiles[c] = tileCompleted
	}

	return nil
}

func sortedCoords(set map[fabric.Coordinate]bool) []fabric.Coordinate {
	coords := make([]fabric.Coordinate, 0, len(set))
	for c := range set {
		coords = append(coords, c)
	}

	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})

	return coords
}
