package core

import "github.com/sarchlab/akita/v4/sim"

// DefaultArenaWords is the scratchpad size of a tile, in words.
const DefaultArenaWords = 4096

// DefaultBankWords is the size of a shared memory bank, in words.
const DefaultBankWords = 1 << 16

// Builder creates tile cores.
type Builder struct {
	engine     sim.Engine
	freq       sim.Freq
	x, y       int
	arenaWords int
}

// MakeBuilder returns a Builder with the default scratchpad size.
func MakeBuilder() Builder {
	return Builder{arenaWords: DefaultArenaWords}
}

// WithEngine sets the engine that drives the core.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithCoord sets the mesh coordinate of the core.
func (b Builder) WithCoord(x, y int) Builder {
	b.x = x
	b.y = y
	return b
}

// WithArenaWords sets the scratchpad size in words.
func (b Builder) WithArenaWords(words int) Builder {
	b.arenaWords = words
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	c := &Core{
		state: coreState{
			TileX: b.x,
			TileY: b.y,
			Arena: make([]uint32, b.arenaWords),
		},
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.port = sim.NewPort(c, 4, 4, name+".Transport")

	return c
}

// BankBuilder creates shared memory banks.
type BankBuilder struct {
	engine sim.Engine
	freq   sim.Freq
	x, y   int
	words  int
}

// MakeBankBuilder returns a BankBuilder with the default bank size.
func MakeBankBuilder() BankBuilder {
	return BankBuilder{words: DefaultBankWords}
}

// WithEngine sets the engine that drives the bank.
func (b BankBuilder) WithEngine(engine sim.Engine) BankBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the bank.
func (b BankBuilder) WithFreq(freq sim.Freq) BankBuilder {
	b.freq = freq
	return b
}

// WithCoord sets the physical coordinate of the bank.
func (b BankBuilder) WithCoord(x, y int) BankBuilder {
	b.x = x
	b.y = y
	return b
}

// WithWords sets the bank size in words.
func (b BankBuilder) WithWords(words int) BankBuilder {
	b.words = words
	return b
}

// Build creates a bank.
func (b BankBuilder) Build(name string) *Bank {
	bank := &Bank{
		bankX: b.x,
		bankY: b.y,
		arena: make([]uint32, b.words),
	}

	bank.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, bank)
	bank.port = sim.NewPort(bank, 4, 4, name+".Transport")

	return bank
}
