// Package api defines the host driver for a manycore fabric device: loading
// program images onto tile groups, moving data between host buffers and
// fabric memory, and synchronizing on tile completion.
package api

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"

	"github.com/sarchlab/manycore/fabric"
	"github.com/sarchlab/manycore/program"
)

// Direction selects which way a memory copy moves data.
type Direction int

// The two copy directions.
const (
	DeviceToHost Direction = iota
	HostToDevice
)

// Driver provides the interface to control an accelerator. All operations
// block until their packet exchange completes; the host side is
// single-threaded and strictly sequential, so exactly one operation
// occupies the transport at a time.
type Driver interface {
	// RegisterDevice registers a device to the driver. The driver will
	// establish connections to the device.
	RegisterDevice(device fabric.Device)

	// LoadGroup freezes every tile of the region, declares the region's
	// origin as its group origin, and loads the program image, in
	// deterministic row-major order. Coordinates in the reserved I/O row
	// fail fast with fabric.ErrInvalidTarget before any packet is sent.
	LoadGroup(image *program.Image, region fabric.Region) error

	// RunGroup unfreezes every tile of the region. It must be called
	// only after all inputs have been transferred in; the driver does
	// not sequence transfers against it.
	RunGroup(region fabric.Region) error

	// WaitGroup blocks until every tile of the region has produced
	// exactly one completion token, in any arrival order. A deadline of
	// zero waits without bound.
	WaitGroup(region fabric.Region, deadline sim.VTimeInSec) error

	// MemCopy copies len(buf) bytes between the host buffer and the
	// accelerator address addr, one word per packet. The coordinate
	// names the tile whose scratchpad is targeted; shared-bank addresses
	// retarget the copy at the encoded bank instead.
	MemCopy(dir Direction, coord fabric.Coordinate, addr fabric.Eva, buf []byte) error

	// SymbolCopy resolves name in the image and copies to or from the
	// resolved address. Resolution failure surfaces before any packet
	// is issued.
	SymbolCopy(dir Direction, coord fabric.Coordinate,
		image *program.Image, name string, buf []byte) error
}

// hostCoord is the coordinate the driver occupies on the fabric: the first
// I/O-row tile.
var hostCoord = fabric.Coordinate{X: 0, Y: 0}

type driverImpl struct {
	*sim.TickingComponent

	port   sim.Port
	device fabric.Device

	tiles      map[fabric.Coordinate]tileStatus
	nextLoadID uint32

	xact   *transaction
	wait   *waitState
	tokens []pendingToken
}

// A pendingToken is a completion token that arrived while no WaitGroup was
// in progress, stamped with its arrival time so a later wait can judge it
// against the deadline correctly.
type pendingToken struct {
	coord fabric.Coordinate
	at    sim.VTimeInSec
}

// RegisterDevice registers a device to the driver. The driver plugs its
// port, every tile port, and every bank port into one connection, and
// points every tile's completion path back at itself.
func (d *driverImpl) RegisterDevice(device fabric.Device) {
	d.device = device

	conn := directconnection.MakeBuilder().
		WithEngine(d.Engine).
		WithFreq(d.Freq).
		Build(d.Name() + ".Conn")
	conn.PlugIn(d.port)

	g := device.Geometry()
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			tile := device.GetTile(x, y)
			conn.PlugIn(tile.Port())
			tile.SetHostPort(d.port.AsRemote())
		}
	}

	for x := 0; x < g.NumBanks; x++ {
		conn.PlugIn(device.GetBank(x).Port())
	}
}

// Tick runs the driver for one cycle.
func (d *driverImpl) Tick() (madeProgress bool) {
	madeProgress = d.doSend() || madeProgress
	madeProgress = d.processInput() || madeProgress

	return madeProgress
}

func (d *driverImpl) doSend() bool {
	x := d.xact
	if x == nil || x.err != nil {
		return false
	}

	madeProgress := false
	for len(x.pending) > 0 && d.port.CanSend() {
		if err := d.port.Send(x.pending[0]); err != nil {
			break
		}

		x.pending = x.pending[1:]
		madeProgress = true
	}

	return madeProgress
}

func (d *driverImpl) processInput() bool {
	item := d.port.PeekIncoming()
	if item == nil {
		return false
	}

	switch msg := item.(type) {
	case *fabric.RspPacket:
		if d.xact != nil {
			d.xact.handleRsp(msg)
		}
	case *fabric.ReqPacket:
		if msg.Op != fabric.OpFinish {
			panic(fmt.Sprintf("driver received request op %d", msg.Op))
		}
		d.handleToken(fabric.Coordinate{X: msg.SrcX, Y: msg.SrcY})
	default:
		panic(fmt.Sprintf("driver cannot handle message %T", item))
	}

	d.port.RetrieveIncoming()

	return true
}

func (d *driverImpl) handleToken(c fabric.Coordinate) {
	if d.wait == nil {
		d.tokens = append(d.tokens, pendingToken{
			coord: c,
			at:    d.Engine.CurrentTime(),
		})
		return
	}

	d.wait.absorb(c, d.Engine.CurrentTime())
}

// execute makes one blocking packet exchange: it hands the transaction to
// the tick loop and pumps the event engine until the transaction has no
// outstanding responses left. TickLater, not TickNow: once a previous
// Engine.Run has drained, the tick scheduler's next-tick watermark sits at
// the current time and TickNow would refuse to schedule.
func (d *driverImpl) execute(x *transaction) error {
	d.xact = x
	d.TickLater()
	err := d.Engine.Run()
	d.xact = nil

	if err != nil {
		return fmt.Errorf("simulation failed: %v: %w",
			err, fabric.ErrTransportUnavailable)
	}

	if x.err != nil {
		return x.err
	}

	if !x.done() {
		return fmt.Errorf(
			"transport drained with %d responses outstanding: %w",
			len(x.inflight), fabric.ErrTransportUnavailable)
	}

	return nil
}

func (d *driverImpl) loadID() uint32 {
	d.nextLoadID++
	return d.nextLoadID
}

type reqKind int

const (
	kindControl reqKind = iota
	kindRead
	kindWrite
)

type reqInfo struct {
	kind  reqKind
	index int
	addr  fabric.Eva
	coord fabric.Coordinate
	what  string
}

// A transaction is one blocking driver operation: requests not yet sent,
// responses still outstanding, and staging space for read data. The first
// nack aborts the transaction; remaining packets are never sent.
type transaction struct {
	pending  []sim.Msg
	inflight map[uint32]reqInfo
	staging  []uint32
	err      error
}

func newTransaction() *transaction {
	return &transaction{inflight: make(map[uint32]reqInfo)}
}

func (x *transaction) done() bool {
	return len(x.pending) == 0 && len(x.inflight) == 0
}

func (x *transaction) handleRsp(rsp *fabric.RspPacket) {
	info, ok := x.inflight[rsp.LoadID]
	if !ok {
		return
	}
	delete(x.inflight, rsp.LoadID)

	if x.err != nil {
		return
	}

	switch rsp.Op {
	case fabric.OpAck:
	case fabric.OpReadData:
		x.staging[info.index] = rsp.Data
	case fabric.OpNack:
		x.fail(info)
	default:
		panic(fmt.Sprintf("driver received response op %d", rsp.Op))
	}
}

func (x *transaction) fail(info reqInfo) {
	switch info.kind {
	case kindRead:
		x.err = &fabric.TransferError{
			Coord: info.coord, Addr: info.addr, Op: fabric.OpRead,
		}
	case kindWrite:
		x.err = &fabric.TransferError{
			Coord: info.coord, Addr: info.addr, Op: fabric.OpWrite,
		}
	default:
		x.err = fmt.Errorf("tile %s rejected %s: %w",
			info.coord, info.what, fabric.ErrTileState)
	}

	// Abort: nothing queued after the failing packet is applied.
	x.pending = nil
}
