package core

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/manycore/fabric"
)

// A Bank is one shared external memory bank. It sits one row beyond the
// compute mesh and serves word read/write requests only; lifecycle
// operations are nacked. Banks never emit completion packets.
type Bank struct {
	*sim.TickingComponent

	port sim.Port

	bankX, bankY int
	arena        []uint32
	pendingOut   []sim.Msg
}

// Port returns the transport port of the bank.
func (b *Bank) Port() sim.Port {
	return b.port
}

// SetHostPort satisfies fabric.Tile. Banks have nothing to tell the host.
func (b *Bank) SetHostPort(sim.RemotePort) {}

// Coord returns the physical coordinate of the bank.
func (b *Bank) Coord() fabric.Coordinate {
	return fabric.Coordinate{X: b.bankX, Y: b.bankY}
}

// Tick runs the bank for one cycle.
func (b *Bank) Tick() (madeProgress bool) {
	madeProgress = b.doSend() || madeProgress
	madeProgress = b.processInput() || madeProgress

	return madeProgress
}

func (b *Bank) doSend() bool {
	madeProgress := false

	for len(b.pendingOut) > 0 {
		if err := b.port.Send(b.pendingOut[0]); err != nil {
			break
		}

		b.pendingOut = b.pendingOut[1:]
		madeProgress = true
	}

	return madeProgress
}

func (b *Bank) processInput() bool {
	item := b.port.PeekIncoming()
	if item == nil {
		return false
	}

	req, ok := item.(*fabric.ReqPacket)
	if !ok {
		panic(fmt.Sprintf("bank cannot handle message %T", item))
	}

	op, data := fabric.OpNack, uint32(0)
	if req.Op == fabric.OpRead || req.Op == fabric.OpWrite {
		op, data = serveMem(b.arena, req)
	}

	rsp := fabric.RspPacketBuilder{}.
		WithSrc(b.port.AsRemote()).
		WithDst(req.Src).
		WithDstCoord(fabric.Coordinate{X: req.SrcX, Y: req.SrcY}).
		WithOp(op).
		WithLoadID(req.LoadID).
		WithData(data).
		Build()
	b.pendingOut = append(b.pendingOut, rsp)

	b.port.RetrieveIncoming()

	return true
}
