package dma

import "github.com/sarchlab/blockdma/bus"

type writeMasterState int

const (
	writeIdle writeMasterState = iota
	writeWaitBlock
	writeIssueAddr
	writeEmitData
	writeWaitResp
)

type writeMasterRegs struct {
	state      writeMasterState
	addr       uint64
	blocksLeft uint32
	beatsSent  int
	lastResp   bus.Resp
}

// writeMaster drains the staging buffer one block at a time, issuing one
// fixed-length burst write per block against the destination bus. It never
// issues a burst before the staging buffer holds at least one complete
// block.
type writeMaster struct {
	core *Core
	out  *bus.Signal[masterEvent]

	cur, nxt writeMasterRegs
}

// Idle reports whether the master has no burst in flight and no blocks left
// to drain.
func (m *writeMaster) Idle() bool {
	return m.cur.state == writeIdle
}

// LastResp returns the response code captured on the most recent burst.
func (m *writeMaster) LastResp() bus.Resp {
	return m.cur.lastResp
}

func (m *writeMaster) Calc() {
	m.nxt = m.cur

	b := m.core.DstBus
	out := bus.WriteMasterSig{}
	evt := masterEvent{}
	beats := m.core.cfg.BeatsPerBlock()

	switch m.cur.state {
	case writeIdle:
		if m.core.orch.out.Get().Start {
			d := m.core.orch.Desc()
			if d.BlockCount > 0 {
				m.nxt.addr = d.DstAddr + m.core.cfg.DstWindowOffset
				m.nxt.blocksLeft = d.BlockCount
				m.nxt.state = writeWaitBlock
			}
		}
	case writeWaitBlock:
		if m.core.staging.Occupancy() >= 1 {
			m.nxt.state = writeIssueAddr
		}
	case writeIssueAddr:
		out.AWValid = true
		out.AWAddr = m.cur.addr
		out.AWBeats = beats

		if b.AddrFired() {
			out.AWValid = false
			m.nxt.beatsSent = 0
			m.nxt.state = writeEmitData
		}
	case writeEmitData:
		// Account for the beat leaving the staging buffer this cycle: its
		// pop is only committed at the end of the cycle.
		popped := 0
		if b.DataFired() {
			popped = 1
			m.nxt.beatsSent = m.cur.beatsSent + 1
		}

		if m.nxt.beatsSent >= beats {
			m.nxt.state = writeWaitResp
		} else if m.core.staging.Words() > popped {
			out.WValid = true
			out.WData = m.core.staging.WordAt(popped)
			out.WLast = m.nxt.beatsSent == beats-1
		}
	case writeWaitResp:
		out.BReady = true

		if b.RespFired() {
			out.BReady = false
			m.completeBurst(b, &evt, beats)
		}
	}

	b.M.Set(out)
	m.out.Set(evt)
}

func (m *writeMaster) completeBurst(
	b *bus.WriteBus,
	evt *masterEvent,
	beats int,
) {
	resp := b.S.Get().BResp
	m.nxt.lastResp = resp

	*evt = masterEvent{
		Done:  true,
		Addr:  m.cur.addr,
		Beats: beats,
		Resp:  resp,
	}

	m.nxt.addr = m.cur.addr + m.core.cfg.BlockBytes
	m.nxt.blocksLeft = m.cur.blocksLeft - 1

	if m.nxt.blocksLeft == 0 {
		m.nxt.state = writeIdle
	} else {
		m.nxt.state = writeWaitBlock
	}
}

func (m *writeMaster) Commit() {
	m.cur = m.nxt
}

func (m *writeMaster) Reset() {
	m.cur = writeMasterRegs{}
	m.nxt = writeMasterRegs{}
}
