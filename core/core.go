// Package core models the device side of the fabric: tiles with local
// scratchpad memory that execute loaded programs, and the shared memory
// banks one row beyond the mesh. Both speak the packet protocol defined in
// the fabric package.
package core

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/manycore/fabric"
	"github.com/sarchlab/manycore/program"
)

type coreState struct {
	TileX, TileY     int
	OriginX, OriginY int

	Frozen bool
	Loaded bool
	Done   bool

	Arena []uint32
	Image *program.Image
}

// A Core is one compute tile. It serves word read/write requests against
// its scratchpad arena, obeys freeze/unfreeze/set-origin control requests,
// and, once unfrozen with a program loaded, executes the kernel and emits
// exactly one completion packet to the host.
type Core struct {
	*sim.TickingComponent

	port     sim.Port
	hostPort sim.RemotePort

	state      coreState
	pendingOut []sim.Msg
}

// Port returns the transport port of the tile.
func (c *Core) Port() sim.Port {
	return c.port
}

// SetHostPort tells the tile where to send its completion packet.
func (c *Core) SetHostPort(port sim.RemotePort) {
	c.hostPort = port
}

// Coord returns the physical coordinate of the tile.
func (c *Core) Coord() fabric.Coordinate {
	return fabric.Coordinate{X: c.state.TileX, Y: c.state.TileY}
}

// Tick runs the tile for one cycle.
func (c *Core) Tick() (madeProgress bool) {
	madeProgress = c.doSend() || madeProgress
	madeProgress = c.processInput() || madeProgress

	return madeProgress
}

func (c *Core) doSend() bool {
	madeProgress := false

	for len(c.pendingOut) > 0 {
		if err := c.port.Send(c.pendingOut[0]); err != nil {
			break
		}

		c.pendingOut = c.pendingOut[1:]
		madeProgress = true
	}

	return madeProgress
}

func (c *Core) processInput() bool {
	item := c.port.PeekIncoming()
	if item == nil {
		return false
	}

	switch msg := item.(type) {
	case *fabric.ReqPacket:
		c.handleReq(msg)
	case *program.LoadReq:
		c.handleLoad(msg)
	default:
		panic(fmt.Sprintf("core cannot handle message %T", item))
	}

	c.port.RetrieveIncoming()

	return true
}

func (c *Core) handleReq(req *fabric.ReqPacket) {
	switch req.Op {
	case fabric.OpRead, fabric.OpWrite:
		op, data := serveMem(c.state.Arena, req)
		c.respond(req, op, data)
	case fabric.OpFreeze:
		c.state.Frozen = true
		c.respond(req, fabric.OpAck, 0)
	case fabric.OpSetOrigin:
		c.state.OriginX = int(req.Data >> 16)
		c.state.OriginY = int(req.Data & 0xffff)
		c.respond(req, fabric.OpAck, 0)
	case fabric.OpUnfreeze:
		c.handleUnfreeze(req)
	default:
		c.respond(req, fabric.OpNack, 0)
	}
}

func (c *Core) handleUnfreeze(req *fabric.ReqPacket) {
	if !c.state.Loaded {
		c.respond(req, fabric.OpNack, 0)
		return
	}

	c.state.Frozen = false
	c.respond(req, fabric.OpAck, 0)

	c.execute()
}

// execute runs the loaded kernel to completion and queues the completion
// packet. The host must not read this tile's memory before that packet
// arrives; intermediate arena state is undefined from its point of view.
func (c *Core) execute() {
	if kernel := c.state.Image.Kernel(); kernel != nil {
		kernel(&kernelContext{core: c})
	}

	c.state.Done = true

	finish := fabric.ReqPacketBuilder{}.
		WithSrc(c.port.AsRemote()).
		WithDst(c.hostPort).
		WithSrcCoord(c.Coord()).
		WithOp(fabric.OpFinish).
		Build()
	c.pendingOut = append(c.pendingOut, finish)

	Trace("KernelDone",
		"X", c.state.TileX,
		"Y", c.state.TileY,
		"Image", c.state.Image.Name(),
	)
}

func (c *Core) handleLoad(req *program.LoadReq) {
	op := fabric.OpAck
	if !c.state.Frozen {
		op = fabric.OpNack
	} else {
		c.loadImage(req.Image)
	}

	rsp := fabric.RspPacketBuilder{}.
		WithSrc(c.port.AsRemote()).
		WithDst(req.Src).
		WithDstCoord(c.Coord()).
		WithOp(op).
		WithLoadID(req.LoadID).
		Build()
	c.pendingOut = append(c.pendingOut, rsp)
}

func (c *Core) loadImage(image *program.Image) {
	clear(c.state.Arena)

	for _, seg := range image.Segments() {
		base := seg.Base.WordAddr()
		copy(c.state.Arena[base:base+uint32(len(seg.Data))], seg.Data)
	}

	c.state.Image = image
	c.state.Loaded = true
	c.state.Done = false
}

func (c *Core) respond(req *fabric.ReqPacket, op fabric.Op, data uint32) {
	rsp := fabric.RspPacketBuilder{}.
		WithSrc(c.port.AsRemote()).
		WithDst(req.Src).
		WithDstCoord(fabric.Coordinate{X: req.SrcX, Y: req.SrcY}).
		WithOp(op).
		WithLoadID(req.LoadID).
		WithData(data).
		Build()
	c.pendingOut = append(c.pendingOut, rsp)
}

// serveMem applies one word read or write against an arena. Out-of-bounds
// word addresses are nacked.
func serveMem(arena []uint32, req *fabric.ReqPacket) (fabric.Op, uint32) {
	if req.Addr >= uint32(len(arena)) {
		return fabric.OpNack, 0
	}

	if req.Op == fabric.OpWrite {
		arena[req.Addr] = req.Data
		return fabric.OpAck, 0
	}

	return fabric.OpReadData, arena[req.Addr]
}

type kernelContext struct {
	core *Core
}

func (k *kernelContext) Coord() fabric.Coordinate {
	return k.core.Coord()
}

func (k *kernelContext) Origin() fabric.Coordinate {
	return fabric.Coordinate{
		X: k.core.state.OriginX,
		Y: k.core.state.OriginY,
	}
}

func (k *kernelContext) Symbol(name string) (fabric.Eva, error) {
	return k.core.state.Image.Symbol(name)
}

func (k *kernelContext) Load(addr fabric.Eva) uint32 {
	return k.core.state.Arena[k.localWordAddr(addr)]
}

func (k *kernelContext) Store(addr fabric.Eva, data uint32) {
	k.core.state.Arena[k.localWordAddr(addr)] = data
}

func (k *kernelContext) localWordAddr(addr fabric.Eva) uint32 {
	if addr.IsShared() {
		panic(fmt.Sprintf(
			"kernel on tile %s addressed shared memory %s directly",
			k.core.Coord(), addr))
	}

	word := addr.WordAddr()
	if word >= uint32(len(k.core.state.Arena)) {
		panic(fmt.Sprintf(
			"kernel on tile %s addressed %s beyond its scratchpad",
			k.core.Coord(), addr))
	}

	return word
}
