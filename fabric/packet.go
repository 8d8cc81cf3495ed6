package fabric

import "github.com/sarchlab/akita/v4/sim"

// An Op is the operation code of a packet.
type Op uint8

// Request operation codes.
const (
	OpRead Op = iota
	OpWrite
	OpFreeze
	OpUnfreeze
	OpSetOrigin
	OpFinish
)

// Response operation codes.
const (
	OpAck Op = iota + 16
	OpNack
	OpReadData
)

// A ReqPacket is one request on the host transport. Addr is word-addressed:
// byte addresses are arithmetic-shifted right by 2 before being placed in a
// packet. For OpSetOrigin, Data packs the origin as x<<16|y. A tile emits
// its completion token as an OpFinish request aimed back at the host.
type ReqPacket struct {
	sim.MsgMeta

	DstX, DstY int
	SrcX, SrcY int
	Op         Op
	Addr       uint32
	Data       uint32
	LoadID     uint32
}

// Meta returns the meta data of the packet.
func (p *ReqPacket) Meta() *sim.MsgMeta {
	return &p.MsgMeta
}

// Clone returns a copy of the packet with a different ID.
func (p *ReqPacket) Clone() sim.Msg {
	cloneMsg := *p
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// A RspPacket answers one ReqPacket. LoadID correlates the response with
// its originating request; Data carries the word read by an OpRead.
type RspPacket struct {
	sim.MsgMeta

	DstX, DstY int
	Op         Op
	LoadID     uint32
	Data       uint32
}

// Meta returns the meta data of the packet.
func (p *RspPacket) Meta() *sim.MsgMeta {
	return &p.MsgMeta
}

// Clone returns a copy of the packet with a different ID.
func (p *RspPacket) Clone() sim.Msg {
	cloneMsg := *p
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// ReqPacketBuilder is a factory for ReqPacket.
type ReqPacketBuilder struct {
	src, dst   sim.RemotePort
	dstC, srcC Coordinate
	op         Op
	addr       uint32
	data       uint32
	loadID     uint32
}

// WithSrc sets the source port of the packet.
func (b ReqPacketBuilder) WithSrc(src sim.RemotePort) ReqPacketBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the packet.
func (b ReqPacketBuilder) WithDst(dst sim.RemotePort) ReqPacketBuilder {
	b.dst = dst
	return b
}

// WithDstCoord sets the destination tile coordinate.
func (b ReqPacketBuilder) WithDstCoord(c Coordinate) ReqPacketBuilder {
	b.dstC = c
	return b
}

// WithSrcCoord sets the source tile coordinate.
func (b ReqPacketBuilder) WithSrcCoord(c Coordinate) ReqPacketBuilder {
	b.srcC = c
	return b
}

// WithOp sets the operation code of the packet.
func (b ReqPacketBuilder) WithOp(op Op) ReqPacketBuilder {
	b.op = op
	return b
}

// WithAddr sets the word address of the packet.
func (b ReqPacketBuilder) WithAddr(addr uint32) ReqPacketBuilder {
	b.addr = addr
	return b
}

// WithData sets the data word of the packet.
func (b ReqPacketBuilder) WithData(data uint32) ReqPacketBuilder {
	b.data = data
	return b
}

// WithLoadID sets the load identifier of the packet.
func (b ReqPacketBuilder) WithLoadID(id uint32) ReqPacketBuilder {
	b.loadID = id
	return b
}

// Build creates a ReqPacket.
func (b ReqPacketBuilder) Build() *ReqPacket {
	return &ReqPacket{
		MsgMeta: sim.MsgMeta{
			ID:  sim.GetIDGenerator().Generate(),
			Src: b.src,
			Dst: b.dst,
		},
		DstX:   b.dstC.X,
		DstY:   b.dstC.Y,
		SrcX:   b.srcC.X,
		SrcY:   b.srcC.Y,
		Op:     b.op,
		Addr:   b.addr,
		Data:   b.data,
		LoadID: b.loadID,
	}
}

// RspPacketBuilder is a factory for RspPacket.
type RspPacketBuilder struct {
	src, dst sim.RemotePort
	dstC     Coordinate
	op       Op
	loadID   uint32
	data     uint32
}

// WithSrc sets the source port of the packet.
func (b RspPacketBuilder) WithSrc(src sim.RemotePort) RspPacketBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the packet.
func (b RspPacketBuilder) WithDst(dst sim.RemotePort) RspPacketBuilder {
	b.dst = dst
	return b
}

// WithDstCoord sets the destination coordinate of the packet.
func (b RspPacketBuilder) WithDstCoord(c Coordinate) RspPacketBuilder {
	b.dstC = c
	return b
}

// WithOp sets the operation code of the packet.
func (b RspPacketBuilder) WithOp(op Op) RspPacketBuilder {
	b.op = op
	return b
}

// WithLoadID sets the load identifier of the packet.
func (b RspPacketBuilder) WithLoadID(id uint32) RspPacketBuilder {
	b.loadID = id
	return b
}

// WithData sets the data word of the packet.
func (b RspPacketBuilder) WithData(data uint32) RspPacketBuilder {
	b.data = data
	return b
}

// Build creates a RspPacket.
func (b RspPacketBuilder) Build() *RspPacket {
	return &RspPacket{
		MsgMeta: sim.MsgMeta{
			ID:  sim.GetIDGenerator().Generate(),
			Src: b.src,
			Dst: b.dst,
		},
		DstX:   b.dstC.X,
		DstY:   b.dstC.Y,
		Op:     b.op,
		LoadID: b.loadID,
		Data:   b.data,
	}
}
