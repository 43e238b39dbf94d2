// Package platform assembles a runnable simulation out of a DMA engine,
// two memory endpoints, and a host driver.
package platform

import (
	"github.com/sarchlab/blockdma/dma"
	"github.com/sarchlab/blockdma/driver"
	"github.com/sarchlab/blockdma/idealbusmem"
	"github.com/sarchlab/blockdma/sim"
	"github.com/sarchlab/blockdma/sim/directconnection"
)

// A Platform holds all the components of an assembled simulation.
type Platform struct {
	Engine sim.Engine
	DMA    *dma.Comp
	SrcMem *idealbusmem.Comp
	DstMem *idealbusmem.Comp
	Driver *driver.Comp
}

// A Builder can build platforms.
type Builder struct {
	freq       sim.Freq
	cfg        dma.Config
	memErrFrom uint64
	memErrTo   uint64
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
		cfg:  dma.DefaultConfig(),
	}
}

// WithFreq sets the frequency of all components.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithDMAConfig sets the DMA engine configuration.
func (b Builder) WithDMAConfig(cfg dma.Config) Builder {
	b.cfg = cfg
	return b
}

// WithMemErrorRange makes both memory endpoints respond with an error for
// beats whose address falls in [from, to).
func (b Builder) WithMemErrorRange(from, to uint64) Builder {
	b.memErrFrom = from
	b.memErrTo = to
	return b
}

// Build assembles a platform.
func (b Builder) Build() *Platform {
	p := &Platform{}

	engine := sim.NewSerialEngine()
	p.Engine = engine

	p.DMA = dma.MakeBuilder().
		WithEngine(engine).
		WithFreq(b.freq).
		WithConfig(b.cfg).
		Build("DMA")

	core := p.DMA.Core()

	p.SrcMem = idealbusmem.MakeBuilder().
		WithClock(p.DMA.Clock()).
		WithReadBus(core.SrcBus).
		WithBeatBytes(b.cfg.BeatBytes()).
		WithErrorRange(b.memErrFrom, b.memErrTo).
		Build("SrcMem")

	p.DstMem = idealbusmem.MakeBuilder().
		WithClock(p.DMA.Clock()).
		WithWriteBus(core.DstBus).
		WithBeatBytes(b.cfg.BeatBytes()).
		WithErrorRange(b.memErrFrom, b.memErrTo).
		Build("DstMem")

	p.Driver = driver.MakeBuilder().
		WithEngine(engine).
		WithFreq(b.freq).
		WithDMARemote(p.DMA.ControlPort().AsRemote()).
		Build("Driver")

	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(b.freq).
		Build("Conn")
	conn.PlugIn(p.DMA.ControlPort())
	conn.PlugIn(p.Driver.ControlPort())

	return p
}
