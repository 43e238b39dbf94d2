package dma

import (
	"github.com/sarchlab/blockdma/bus"
	"github.com/sarchlab/blockdma/sim"
)

// A Builder can build DMA engine components.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	cfg    Config
	clock  *bus.Clock
}

// MakeBuilder creates a builder with default configuration.
func MakeBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
		cfg:  DefaultConfig(),
	}
}

// WithEngine sets the event-driven simulation engine to use.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency at which the component ticks.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithConfig sets the engine configuration.
func (b Builder) WithConfig(cfg Config) Builder {
	b.cfg = cfg
	return b
}

// WithClock sets the signal-level clock to advance. If unset, the builder
// creates a private clock.
func (b Builder) WithClock(clock *bus.Clock) Builder {
	b.clock = clock
	return b
}

// Build creates a DMA engine component with the given name.
func (b Builder) Build(name string) *Comp {
	c := &Comp{}
	c.TickingComponent = sim.NewTickingComponent(
		name, b.engine, b.freq, c)

	c.clock = b.clock
	if c.clock == nil {
		c.clock = bus.NewClock()
	}

	c.core = NewCore(b.cfg, c.clock)
	c.regMaster = &regBusMaster{bus: c.core.RegBus}
	c.clock.AddMachine(c.regMaster)

	c.ctrlPort = sim.NewPort(c, 4, 4, name+".CtrlPort")
	c.AddPort("Ctrl", c.ctrlPort)

	return c
}
