package dma

import "github.com/sarchlab/blockdma/bus"

// A TransferDescriptor is derived from the register file at the instant a
// start pulse is accepted. It is consumed incrementally as blocks complete.
type TransferDescriptor struct {
	SrcAddr    uint64
	DstAddr    uint64
	BlockCount uint32
}

// masterEvent is pulsed by a bus master on the cycle a burst completes.
type masterEvent struct {
	Done  bool
	Addr  uint64
	Beats int
	Resp  bus.Resp
}

type orchRegs struct {
	busy       bool
	desc       TransferDescriptor
	blocksDone uint32
	fault      bool
}

type orchOut struct {
	Start bool
}

// orchestrator owns the engine-level idle/busy state. A start pulse is
// accepted only while idle; re-entrant starts are ignored so the two
// masters cannot lose synchronization mid-transfer. The transfer is
// complete when the read master has issued its last burst, the write master
// has drained its last block, and the staging buffer occupancy is back to
// zero.
type orchestrator struct {
	core *Core
	out  *bus.Signal[orchOut]

	cur, nxt orchRegs
}

// Idle reports the engine-level idle predicate, as read through CTL_STAT.
func (o *orchestrator) Idle() bool {
	return !o.cur.busy
}

// Desc returns the descriptor of the transfer in progress.
func (o *orchestrator) Desc() TransferDescriptor {
	return o.cur.desc
}

// Fault reports whether any burst returned an error response. It stays
// false under ErrorPolicyIgnore.
func (o *orchestrator) Fault() bool {
	return o.cur.fault
}

// BlocksDone returns the number of blocks fully written to the destination
// during the current transfer.
func (o *orchestrator) BlocksDone() uint32 {
	return o.cur.blocksDone
}

func (o *orchestrator) Calc() {
	o.nxt = o.cur

	out := orchOut{}

	if !o.cur.busy {
		if o.core.startSig.Get() {
			o.nxt.busy = true
			o.nxt.blocksDone = 0
			o.nxt.desc = TransferDescriptor{
				SrcAddr:    o.core.regs.srcAddr(),
				DstAddr:    o.core.regs.dstAddr(),
				BlockCount: o.core.regs.blockCount(),
			}
			out.Start = true
		}
	} else {
		o.trackProgress()
	}

	o.out.Set(out)
}

func (o *orchestrator) trackProgress() {
	rEvt := o.core.readMaster.out.Get()
	wEvt := o.core.writeMaster.out.Get()

	if wEvt.Done {
		o.nxt.blocksDone = o.cur.blocksDone + 1
	}

	if o.core.cfg.ErrorPolicy == ErrorPolicyReport {
		if rEvt.Done && rEvt.Resp != bus.RespOKAY {
			o.nxt.fault = true
		}
		if wEvt.Done && wEvt.Resp != bus.RespOKAY {
			o.nxt.fault = true
		}
	}

	if o.nxt.blocksDone == o.cur.desc.BlockCount &&
		o.core.readMaster.Idle() &&
		o.core.writeMaster.Idle() &&
		o.core.staging.Occupancy() == 0 {
		o.nxt.busy = false
	}
}

func (o *orchestrator) Commit() {
	o.cur = o.nxt
}

func (o *orchestrator) Reset() {
	o.cur = orchRegs{}
	o.nxt = orchRegs{}
}

// Core is the signal-level DMA engine: the configuration slave, the two
// burst masters, the staging buffer, and the orchestrator, all advancing on
// one two-phase clock.
type Core struct {
	cfg  Config
	regs regFile

	// RegBus is the configuration port; the engine drives its slave side.
	RegBus *bus.RegBus
	// SrcBus is the source-side burst bus; the engine drives its master
	// side.
	SrcBus *bus.ReadBus
	// DstBus is the destination-side burst bus; the engine drives its
	// master side.
	DstBus *bus.WriteBus

	startSig *bus.Signal[bool]

	slave       *configSlave
	readMaster  *readMaster
	writeMaster *writeMaster
	staging     *stagingBuffer
	orch        *orchestrator
}

// NewCore creates a DMA engine core clocked by the given clock.
func NewCore(cfg Config, clock *bus.Clock) *Core {
	cfg.mustBeValid()

	c := &Core{cfg: cfg}

	c.RegBus = bus.NewRegBus(clock)
	c.SrcBus = bus.NewReadBus(clock)
	c.DstBus = bus.NewWriteBus(clock)
	c.startSig = bus.NewSignal[bool](clock)

	c.slave = &configSlave{core: c}
	c.staging = newStagingBuffer(c)
	c.readMaster = &readMaster{
		core: c,
		out:  bus.NewSignal[masterEvent](clock),
	}
	c.writeMaster = &writeMaster{
		core: c,
		out:  bus.NewSignal[masterEvent](clock),
	}
	c.orch = &orchestrator{
		core: c,
		out:  bus.NewSignal[orchOut](clock),
	}

	clock.AddMachine(c.slave)
	clock.AddMachine(c.readMaster)
	clock.AddMachine(c.writeMaster)
	clock.AddMachine(c.staging)
	clock.AddMachine(c.orch)

	return c
}

// Config returns the construction-time configuration of the core.
func (c *Core) Config() Config {
	return c.cfg
}

// Idle reports whether the engine is idle, exactly as a CTL_STAT read
// would.
func (c *Core) Idle() bool {
	return c.orch.Idle()
}

// Fault reports whether a burst error response has been latched. Always
// false under ErrorPolicyIgnore.
func (c *Core) Fault() bool {
	return c.orch.Fault()
}

// Occupancy returns the staging buffer occupancy in blocks.
func (c *Core) Occupancy() int {
	return c.staging.Occupancy()
}

// RegisterSnapshot is a point-in-time copy of the stored registers, plus
// the synthesized status bit.
type RegisterSnapshot struct {
	SrcHi uint32
	SrcLo uint32
	DstHi uint32
	DstLo uint32
	Count uint32
	Idle  bool
}

// Registers returns a snapshot of the register file.
func (c *Core) Registers() RegisterSnapshot {
	return RegisterSnapshot{
		SrcHi: c.regs.srcHi,
		SrcLo: c.regs.srcLo,
		DstHi: c.regs.dstHi,
		DstLo: c.regs.dstLo,
		Count: c.regs.count,
		Idle:  c.Idle(),
	}
}
