package dma

import "github.com/sarchlab/blockdma/bus"

type slaveState int

const (
	slaveIdle slaveState = iota
	slaveResponding
)

type slaveRegs struct {
	rState slaveState
	rData  uint32
	rResp  bus.Resp

	wState  slaveState
	wAddr   uint64
	wData   uint32
	hasAddr bool
	hasData bool
	bResp   bus.Resp

	pendWrite  bool
	pendOffset uint64
	pendValue  uint32
	pendPreset bool
}

// configSlave decodes register-mapped accesses from the register bus. The
// read and write directions are independent two-state machines; each
// guarantees at most one in-flight access at a time. Committing a write to
// the CTL_STAT offset is the sole trigger for starting a transfer, gated by
// the orchestrator being idle.
type configSlave struct {
	core *Core

	cur, nxt slaveRegs
}

func (s *configSlave) Calc() {
	s.nxt = s.cur
	n := &s.nxt

	b := s.core.RegBus
	out := bus.RegSlaveSig{}
	start := false

	switch s.cur.rState {
	case slaveIdle:
		out.ARReady = true

		if b.ReadAddrFired() {
			out.ARReady = false
			n.rData, n.rResp =
				s.core.regs.read(b.M.Get().ARAddr, s.core.orch.Idle())
			n.rState = slaveResponding
		}
	case slaveResponding:
		out.RValid = true
		out.RData = s.cur.rData
		out.RResp = s.cur.rResp

		if b.ReadDataFired() {
			out.RValid = false
			n.rState = slaveIdle
		}
	}

	switch s.cur.wState {
	case slaveIdle:
		// Address and data arrive independently, possibly in different
		// cycles.
		out.AWReady = !s.cur.hasAddr
		out.WReady = !s.cur.hasData

		if b.WriteAddrFired() {
			out.AWReady = false
			n.wAddr = b.M.Get().AWAddr
			n.hasAddr = true
		}

		if b.WriteDataFired() {
			out.WReady = false
			n.wData = b.M.Get().WData
			n.hasData = true
		}

		if n.hasAddr && n.hasData {
			start = s.commitWrite(n)
		}
	case slaveResponding:
		out.BValid = true
		out.BResp = s.cur.bResp

		if b.RespFired() {
			out.BValid = false
			n.wState = slaveIdle
		}
	}

	b.S.Set(out)
	s.core.startSig.Set(start)
}

// commitWrite stages the register update for the commit phase and computes
// the response. It returns whether the write starts a transfer.
func (s *configSlave) commitWrite(n *slaveRegs) bool {
	// Decode against a scratch copy; the shared register file is only
	// mutated at commit.
	scratch := s.core.regs
	n.bResp = scratch.write(n.wAddr, n.wData)

	n.pendWrite = true
	n.pendOffset = n.wAddr
	n.pendValue = n.wData

	start := false
	if n.wAddr>>2 == RegCtlStat>>2 {
		if s.core.cfg.StartMode == StartModeDebugPreset {
			n.pendPreset = true
		}

		if s.core.orch.Idle() {
			start = true
		}
	}

	n.hasAddr = false
	n.hasData = false
	n.wState = slaveResponding

	return start
}

func (s *configSlave) Commit() {
	if s.nxt.pendWrite {
		s.core.regs.write(s.nxt.pendOffset, s.nxt.pendValue)

		if s.nxt.pendPreset {
			s.core.regs.applyDebugPreset()
		}

		s.nxt.pendWrite = false
		s.nxt.pendPreset = false
	}

	s.cur = s.nxt
}

func (s *configSlave) Reset() {
	s.cur = slaveRegs{}
	s.nxt = slaveRegs{}
	s.core.regs = regFile{}
}
