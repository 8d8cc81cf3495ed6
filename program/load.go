package program

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/manycore/fabric"
)

// A LoadReq is the transport's program-load primitive: it ships an image to
// one tile. The tile answers with an ack/nack RspPacket carrying the same
// load id.
type LoadReq struct {
	sim.MsgMeta

	DstX, DstY int
	Image      *Image
	LoadID     uint32
}

// Meta returns the meta data of the request.
func (r *LoadReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a copy of the request with a different ID.
func (r *LoadReq) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// LoadReqBuilder is a factory for LoadReq.
type LoadReqBuilder struct {
	src, dst sim.RemotePort
	dstC     fabric.Coordinate
	image    *Image
	loadID   uint32
}

// WithSrc sets the source port of the request.
func (b LoadReqBuilder) WithSrc(src sim.RemotePort) LoadReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the request.
func (b LoadReqBuilder) WithDst(dst sim.RemotePort) LoadReqBuilder {
	b.dst = dst
	return b
}

// WithDstCoord sets the destination tile coordinate.
func (b LoadReqBuilder) WithDstCoord(c fabric.Coordinate) LoadReqBuilder {
	b.dstC = c
	return b
}

// WithImage sets the image to load.
func (b LoadReqBuilder) WithImage(image *Image) LoadReqBuilder {
	b.image = image
	return b
}

// WithLoadID sets the load identifier of the request.
func (b LoadReqBuilder) WithLoadID(id uint32) LoadReqBuilder {
	b.loadID = id
	return b
}

// Build creates a LoadReq.
func (b LoadReqBuilder) Build() *LoadReq {
	return &LoadReq{
		MsgMeta: sim.MsgMeta{
			ID:  sim.GetIDGenerator().Generate(),
			Src: b.src,
			Dst: b.dst,
		},
		DstX:   b.dstC.X,
		DstY:   b.dstC.Y,
		Image:  b.image,
		LoadID: b.loadID,
	}
}
