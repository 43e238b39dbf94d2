package dma

import "github.com/sarchlab/blockdma/bus"

type readMasterState int

const (
	readIdle readMasterState = iota
	readIssueAddr
	readCollectData
	readWaitRoom
)

type readMasterRegs struct {
	state      readMasterState
	addr       uint64
	blocksLeft uint32
	beatsSeen  int
	lastResp   bus.Resp
}

// readMaster issues one fixed-length burst read per block against the
// source bus and pushes the received beats into the staging buffer. It
// never issues a new burst while the staging buffer already holds its full
// two blocks.
type readMaster struct {
	core *Core
	out  *bus.Signal[masterEvent]

	cur, nxt readMasterRegs
}

// Idle reports whether the master has no burst in flight and no blocks left
// to issue.
func (m *readMaster) Idle() bool {
	return m.cur.state == readIdle
}

// LastResp returns the response code captured on the most recent burst.
func (m *readMaster) LastResp() bus.Resp {
	return m.cur.lastResp
}

func (m *readMaster) Calc() {
	m.nxt = m.cur

	b := m.core.SrcBus
	out := bus.ReadMasterSig{}
	evt := masterEvent{}

	switch m.cur.state {
	case readIdle:
		if m.core.orch.out.Get().Start {
			d := m.core.orch.Desc()
			if d.BlockCount > 0 {
				m.nxt.addr = d.SrcAddr
				m.nxt.blocksLeft = d.BlockCount
				m.nxt.state = readIssueAddr
			}
		}
	case readIssueAddr:
		out.ARValid = true
		out.ARAddr = m.cur.addr
		out.ARBeats = m.core.cfg.BeatsPerBlock()

		if b.AddrFired() {
			out.ARValid = false
			m.nxt.beatsSeen = 0
			m.nxt.state = readCollectData
		}
	case readCollectData:
		// Room for the whole burst is guaranteed by the occupancy gate,
		// so the master is always ready for the next beat.
		out.RReady = true

		if b.DataFired() {
			m.nxt.beatsSeen = m.cur.beatsSeen + 1

			if b.S.Get().RLast {
				out.RReady = false
				m.completeBurst(b, &evt)
			}
		}
	case readWaitRoom:
		if m.core.staging.Occupancy() < m.core.cfg.FIFOCapacityBlocks {
			m.nxt.state = readIssueAddr
		}
	}

	b.M.Set(out)
	m.out.Set(evt)
}

func (m *readMaster) completeBurst(b *bus.ReadBus, evt *masterEvent) {
	resp := b.S.Get().RResp
	m.nxt.lastResp = resp

	*evt = masterEvent{
		Done:  true,
		Addr:  m.cur.addr,
		Beats: m.cur.beatsSeen + 1,
		Resp:  resp,
	}

	m.nxt.addr = m.cur.addr + m.core.cfg.BlockBytes
	m.nxt.blocksLeft = m.cur.blocksLeft - 1

	if m.nxt.blocksLeft == 0 {
		m.nxt.state = readIdle
	} else {
		m.nxt.state = readWaitRoom
	}
}

func (m *readMaster) Commit() {
	m.cur = m.nxt
}

func (m *readMaster) Reset() {
	m.cur = readMasterRegs{}
	m.nxt = readMasterRegs{}
}
