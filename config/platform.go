// Package config provides a default configuration for a manycore fabric
// device.
package config

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/manycore/core"
	"github.com/sarchlab/manycore/fabric"
)

// A device is a mesh of tile cores plus the shared memory banks one row
// beyond the mesh. Tiles can be retrieved using d.tiles[y][x].
type device struct {
	name     string
	geometry fabric.Geometry

	tiles [][]*core.Core
	banks []*core.Bank
}

// Geometry returns the shape of the device.
func (d *device) Geometry() fabric.Geometry {
	return d.geometry
}

// GetTile returns the tile at the given coordinates.
func (d *device) GetTile(x, y int) fabric.Tile {
	return d.tiles[y][x]
}

// GetBank returns the shared memory bank at the given x coordinate.
func (d *device) GetBank(x int) fabric.Tile {
	return d.banks[x]
}

// DeviceBuilder can build fabric devices.
type DeviceBuilder struct {
	engine        sim.Engine
	freq          sim.Freq
	width, height int
	numBanks      int
	arenaWords    int
	bankWords     int
}

// MakeDeviceBuilder returns a DeviceBuilder with default memory sizes.
func MakeDeviceBuilder() DeviceBuilder {
	return DeviceBuilder{
		arenaWords: core.DefaultArenaWords,
		bankWords:  core.DefaultBankWords,
	}
}

// WithEngine sets the engine that drives the device simulation.
func (b DeviceBuilder) WithEngine(engine sim.Engine) DeviceBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the device.
func (b DeviceBuilder) WithFreq(freq sim.Freq) DeviceBuilder {
	b.freq = freq
	return b
}

// WithWidth sets the width of the tile mesh.
func (b DeviceBuilder) WithWidth(width int) DeviceBuilder {
	b.width = width
	return b
}

// WithHeight sets the height of the tile mesh, including the I/O row.
func (b DeviceBuilder) WithHeight(height int) DeviceBuilder {
	b.height = height
	return b
}

// WithNumBanks sets the number of shared memory banks.
func (b DeviceBuilder) WithNumBanks(numBanks int) DeviceBuilder {
	b.numBanks = numBanks
	return b
}

// WithArenaWords sets the scratchpad size of every tile, in words.
func (b DeviceBuilder) WithArenaWords(words int) DeviceBuilder {
	b.arenaWords = words
	return b
}

// WithBankWords sets the size of every shared memory bank, in words.
func (b DeviceBuilder) WithBankWords(words int) DeviceBuilder {
	b.bankWords = words
	return b
}

// Build creates a fabric device. Row 0 tiles exist like any other; the
// I/O-row load restriction is the driver's to enforce.
func (b DeviceBuilder) Build(name string) fabric.Device {
	numBanks := b.numBanks
	if numBanks == 0 {
		numBanks = min(b.width, fabric.MaxBanks)
	}
	if numBanks > fabric.MaxBanks {
		panic(fmt.Sprintf(
			"the address encoding supports at most %d banks, got %d",
			fabric.MaxBanks, numBanks))
	}

	dev := &device{
		name: name,
		geometry: fabric.Geometry{
			Width:    b.width,
			Height:   b.height,
			NumBanks: numBanks,
		},
		tiles: make([][]*core.Core, b.height),
	}

	for y := 0; y < b.height; y++ {
		dev.tiles[y] = make([]*core.Core, b.width)
		for x := 0; x < b.width; x++ {
			dev.tiles[y][x] = core.MakeBuilder().
				WithEngine(b.engine).
				WithFreq(b.freq).
				WithCoord(x, y).
				WithArenaWords(b.arenaWords).
				Build(fmt.Sprintf("%s.Tile[%d][%d]", name, x, y))
		}
	}

	for x := 0; x < numBanks; x++ {
		dev.banks = append(dev.banks, core.MakeBankBuilder().
			WithEngine(b.engine).
			WithFreq(b.freq).
			WithCoord(x, dev.geometry.BankRow()).
			WithWords(b.bankWords).
			Build(fmt.Sprintf("%s.Bank[%d]", name, x)))
	}

	return dev
}
