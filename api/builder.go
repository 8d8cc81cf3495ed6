package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/manycore/fabric"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine sim.Engine
	freq   sim.Freq
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the driver.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// Build creates a driver.
func (b DriverBuilder) Build(name string) Driver {
	d := &driverImpl{
		tiles: make(map[fabric.Coordinate]tileStatus),
	}

	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)
	d.port = sim.NewPort(d, 4, 4, name+".Host")

	return d
}
