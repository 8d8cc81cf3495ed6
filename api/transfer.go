package api

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/manycore/fabric"
	"github.com/sarchlab/manycore/program"
)

// MemCopy performs a word-granular copy between a host buffer and fabric
// memory. The address is classified first: a shared-bank address replaces
// the explicit tile coordinate with the bank coordinate encoded in the
// address; the byte offset math is the same either way. One packet moves
// one word, at consecutive word addresses.
func (d *driverImpl) MemCopy(
	dir Direction,
	coord fabric.Coordinate,
	addr fabric.Eva,
	buf []byte,
) error {
	if d.device == nil {
		return fmt.Errorf("no device registered: %w",
			fabric.ErrTransportUnavailable)
	}

	if len(buf)%fabric.WordBytes != 0 {
		return fmt.Errorf(
			"byte count %d is not a multiple of the %d-byte packet payload: %w",
			len(buf), fabric.WordBytes, fabric.ErrTransferFailed)
	}

	target, loc, err := d.resolveTarget(dir, coord, addr)
	if err != nil {
		return err
	}

	numWords := len(buf) / fabric.WordBytes
	x := newTransaction()
	x.staging = make([]uint32, numWords)

	kind := kindRead
	op := fabric.OpRead
	if dir == HostToDevice {
		kind = kindWrite
		op = fabric.OpWrite
	}

	for i := 0; i < numWords; i++ {
		var data uint32
		if dir == HostToDevice {
			data = binary.LittleEndian.Uint32(buf[i*fabric.WordBytes:])
		}

		id := d.loadID()
		x.pending = append(x.pending, fabric.ReqPacketBuilder{}.
			WithSrc(d.port.AsRemote()).
			WithDst(target).
			WithDstCoord(loc.coord).
			WithSrcCoord(hostCoord).
			WithOp(op).
			WithAddr(loc.wordAddr+uint32(i)).
			WithData(data).
			WithLoadID(id).
			Build())
		x.inflight[id] = reqInfo{
			kind:  kind,
			index: i,
			addr:  addr + fabric.Eva(i*fabric.WordBytes),
			coord: loc.coord,
		}
	}

	if err := d.execute(x); err != nil {
		return err
	}

	// The staged words reach the caller's buffer only on full success.
	if dir == DeviceToHost {
		for i, word := range x.staging {
			binary.LittleEndian.PutUint32(buf[i*fabric.WordBytes:], word)
		}
	}

	return nil
}

// copyTarget is the physical endpoint a classified transfer goes to.
type copyTarget struct {
	coord    fabric.Coordinate
	wordAddr uint32
}

func (d *driverImpl) resolveTarget(
	dir Direction,
	coord fabric.Coordinate,
	addr fabric.Eva,
) (sim.RemotePort, copyTarget, error) {
	g := d.device.Geometry()
	loc := g.Classify(addr)

	if loc.Shared {
		if loc.Bank.X >= g.NumBanks {
			return "", copyTarget{}, fmt.Errorf(
				"address %s encodes bank %d but the device has %d banks: %w",
				addr, loc.Bank.X, g.NumBanks, fabric.ErrInvalidTarget)
		}

		bank := d.device.GetBank(loc.Bank.X)
		return bank.Port().AsRemote(), copyTarget{
			coord:    loc.Bank,
			wordAddr: loc.Offset.WordAddr(),
		}, nil
	}

	if !g.ContainsTile(coord) {
		return "", copyTarget{}, fmt.Errorf(
			"tile %s is outside the %dx%d mesh: %w",
			coord, g.Width, g.Height, fabric.ErrInvalidTarget)
	}

	// Reading a tile that has not completed would observe undefined
	// intermediate state.
	if dir == DeviceToHost && d.tiles[coord] == tileRunning {
		return "", copyTarget{}, fmt.Errorf(
			"tile %s is still running, wait before reading back: %w",
			coord, fabric.ErrTileState)
	}

	tile := d.device.GetTile(coord.X, coord.Y)
	return tile.Port().AsRemote(), copyTarget{
		coord:    coord,
		wordAddr: loc.Offset.WordAddr(),
	}, nil
}

// SymbolCopy resolves a variable name in the image and copies to or from
// its address. A failed resolution is surfaced before any transport
// request is issued.
func (d *driverImpl) SymbolCopy(
	dir Direction,
	coord fabric.Coordinate,
	image *program.Image,
	name string,
	buf []byte,
) error {
	addr, err := image.Symbol(name)
	if err != nil {
		return err
	}

	words, err := image.SymbolWords(name)
	if err != nil {
		return err
	}

	if len(buf) > words*fabric.WordBytes {
		return fmt.Errorf(
			"%d bytes exceed symbol %q extent of %d words: %w",
			len(buf), name, words, fabric.ErrTransferFailed)
	}

	return d.MemCopy(dir, coord, addr, buf)
}
