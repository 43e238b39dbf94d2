package driver

import (
	"github.com/sarchlab/blockdma/sim"
)

// A Builder can build driver components.
type Builder struct {
	engine    sim.Engine
	freq      sim.Freq
	dmaRemote sim.RemotePort
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the event-driven simulation engine to use.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency at which the driver ticks.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithDMARemote sets the remote control port of the DMA engine.
func (b Builder) WithDMARemote(remote sim.RemotePort) Builder {
	b.dmaRemote = remote
	return b
}

// Build creates a driver component with the given name.
func (b Builder) Build(name string) *Comp {
	c := &Comp{}
	c.TickingComponent = sim.NewTickingComponent(
		name, b.engine, b.freq, c)

	c.dmaCtrl = b.dmaRemote
	c.ctrlPort = sim.NewPort(c, 4, 4, name+".CtrlPort")
	c.AddPort("Ctrl", c.ctrlPort)

	return c
}
