package dma

import (
	"log"

	"github.com/sarchlab/blockdma/bus"
	"github.com/sarchlab/blockdma/sim"
)

type regAccessKind int

const (
	regAccessNone regAccessKind = iota
	regAccessRead
	regAccessWrite
)

type regAccess struct {
	kind   regAccessKind
	offset uint64
	data   uint32
}

type regResult struct {
	valid bool
	data  uint32
	resp  bus.Resp
}

type regBusMasterState int

const (
	rbmIdle regBusMasterState = iota
	rbmReadAddr
	rbmReadData
	rbmWriteIssue
	rbmWriteResp
)

type regBusMasterRegs struct {
	state    regBusMasterState
	addrDone bool
	dataDone bool
	data     uint32
	resp     bus.Resp
}

// regBusMaster drives the requester side of the configuration bus on behalf
// of the message-level component. One access is in flight at a time.
type regBusMaster struct {
	bus *bus.RegBus

	req    regAccess
	result regResult

	pendDone bool
	cur, nxt regBusMasterRegs
}

// Busy reports whether an access is pending or on the wire.
func (m *regBusMaster) Busy() bool {
	return m.cur.state != rbmIdle || m.req.kind != regAccessNone
}

// Start stages an access to be driven starting from the next cycle. The
// caller must not start a new access while one is in flight.
func (m *regBusMaster) Start(acc regAccess) {
	if m.Busy() || m.result.valid {
		log.Panic("register access started while another is in flight")
	}

	m.req = acc
}

// TakeResult returns the completed access result, if any, and clears it.
func (m *regBusMaster) TakeResult() (regResult, bool) {
	if !m.result.valid {
		return regResult{}, false
	}

	r := m.result
	m.result = regResult{}

	return r, true
}

func (m *regBusMaster) Calc() {
	m.nxt = m.cur
	m.pendDone = false

	out := bus.RegMasterSig{}

	switch m.cur.state {
	case rbmIdle:
		switch m.req.kind {
		case regAccessRead:
			m.nxt.state = rbmReadAddr
		case regAccessWrite:
			m.nxt.state = rbmWriteIssue
			m.nxt.addrDone = false
			m.nxt.dataDone = false
		}
	case rbmReadAddr:
		out.ARValid = true
		out.ARAddr = m.req.offset

		if m.bus.ReadAddrFired() {
			m.nxt.state = rbmReadData
		}
	case rbmReadData:
		out.RReady = true

		if m.bus.ReadDataFired() {
			m.nxt.data = m.bus.S.Get().RData
			m.nxt.resp = m.bus.S.Get().RResp
			m.nxt.state = rbmIdle
			m.pendDone = true
		}
	case rbmWriteIssue:
		out.AWValid = !m.cur.addrDone
		out.AWAddr = m.req.offset
		out.WValid = !m.cur.dataDone
		out.WData = m.req.data

		if m.bus.WriteAddrFired() {
			m.nxt.addrDone = true
		}

		if m.bus.WriteDataFired() {
			m.nxt.dataDone = true
		}

		if m.nxt.addrDone && m.nxt.dataDone {
			m.nxt.state = rbmWriteResp
		}
	case rbmWriteResp:
		out.BReady = true

		if m.bus.RespFired() {
			m.nxt.resp = m.bus.S.Get().BResp
			m.nxt.state = rbmIdle
			m.pendDone = true
		}
	}

	m.bus.M.Set(out)
}

func (m *regBusMaster) Commit() {
	m.cur = m.nxt

	if m.pendDone {
		m.result = regResult{
			valid: true,
			data:  m.cur.data,
			resp:  m.cur.resp,
		}
		m.req = regAccess{}
	}
}

func (m *regBusMaster) Reset() {
	m.cur = regBusMasterRegs{}
	m.nxt = regBusMasterRegs{}
	m.req = regAccess{}
	m.result = regResult{}
	m.pendDone = false
}

// Comp is the DMA engine as a simulation component. It embeds the
// signal-level core and advances the core's clock once per component tick.
// Register accesses arrive as messages on the control port and are replayed
// on the configuration bus.
type Comp struct {
	*sim.TickingComponent

	clock     *bus.Clock
	core      *Core
	regMaster *regBusMaster

	ctrlPort sim.Port
	inflight sim.Msg
}

// ControlPort returns the port that accepts register access requests.
func (c *Comp) ControlPort() sim.Port {
	return c.ctrlPort
}

// Core returns the signal-level engine, mainly for inspection.
func (c *Comp) Core() *Core {
	return c.core
}

// Clock returns the signal-level clock that the component advances.
func (c *Comp) Clock() *bus.Clock {
	return c.clock
}

// Tick advances the component state by one cycle.
func (c *Comp) Tick() bool {
	madeProgress := false

	madeProgress = c.respondRegAccess() || madeProgress
	madeProgress = c.issueRegAccess() || madeProgress
	madeProgress = c.advanceClock() || madeProgress

	return madeProgress
}

func (c *Comp) respondRegAccess() bool {
	result, ok := c.regMaster.TakeResult()
	if !ok {
		return false
	}

	var rsp sim.Msg
	switch req := c.inflight.(type) {
	case *RegReadReq:
		rsp = RegReadRspBuilder{}.
			WithSrc(c.ctrlPort.AsRemote()).
			WithDst(req.Src).
			WithRspTo(req.ID).
			WithData(result.data).
			WithResp(result.resp).
			Build()
	case *RegWriteReq:
		rsp = RegWriteRspBuilder{}.
			WithSrc(c.ctrlPort.AsRemote()).
			WithDst(req.Src).
			WithRspTo(req.ID).
			WithResp(result.resp).
			Build()
	default:
		log.Panicf("cannot respond to message %T", c.inflight)
	}

	err := c.ctrlPort.Send(rsp)
	if err != nil {
		c.regMaster.result = result
		return false
	}

	c.inflight = nil

	return true
}

func (c *Comp) issueRegAccess() bool {
	if c.inflight != nil || c.regMaster.Busy() {
		return false
	}

	msg := c.ctrlPort.PeekIncoming()
	if msg == nil {
		return false
	}

	switch req := msg.(type) {
	case *RegReadReq:
		c.regMaster.Start(regAccess{
			kind:   regAccessRead,
			offset: req.Offset,
		})
	case *RegWriteReq:
		c.regMaster.Start(regAccess{
			kind:   regAccessWrite,
			offset: req.Offset,
			data:   req.Data,
		})
	default:
		log.Panicf("cannot process message %T", msg)
	}

	c.inflight = msg
	c.ctrlPort.RetrieveIncoming()

	return true
}

func (c *Comp) advanceClock() bool {
	if c.core.Idle() && !c.regMaster.Busy() &&
		c.core.Occupancy() == 0 {
		return false
	}

	c.clock.Tick()
	c.reportBursts()

	return true
}

func (c *Comp) reportBursts() {
	if evt := c.core.readMaster.out.Get(); evt.Done {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosBurstComplete,
			Item: BurstEvent{
				Dir:   BurstRead,
				Addr:  evt.Addr,
				Beats: evt.Beats,
				Resp:  evt.Resp,
				Cycle: c.clock.Cycle(),
			},
		})
	}

	if evt := c.core.writeMaster.out.Get(); evt.Done {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosBurstComplete,
			Item: BurstEvent{
				Dir:   BurstWrite,
				Addr:  evt.Addr,
				Beats: evt.Beats,
				Resp:  evt.Resp,
				Cycle: c.clock.Cycle(),
			},
		})
	}
}
