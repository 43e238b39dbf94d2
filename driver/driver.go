// Package driver provides a host agent that programs the DMA engine
// through its register interface and waits for completion by polling the
// status register.
package driver

import (
	"fmt"
	"log"

	"github.com/sarchlab/blockdma/dma"
	"github.com/sarchlab/blockdma/monitoring"
	"github.com/sarchlab/blockdma/sim"
)

// A Transfer is one block copy job to run on the engine.
type Transfer struct {
	SrcAddr    uint64
	DstAddr    uint64
	BlockCount uint32
}

type driverState int

const (
	driverIdle driverState = iota
	driverProgramming
	driverPolling
)

type regWrite struct {
	offset uint64
	data   uint32
}

// HookPosTransferDone triggers when a transfer finishes. The hook item is
// the completed Transfer.
var HookPosTransferDone = &sim.HookPos{Name: "TransferDone"}

// Comp programs one transfer at a time: six register writes followed by
// status polls until the engine reports idle again. A poll counts only
// after the engine has been seen busy, so a stale idle reading from before
// the start cannot be mistaken for completion.
type Comp struct {
	*sim.TickingComponent

	ctrlPort sim.Port
	dmaCtrl  sim.RemotePort

	pending   []Transfer
	completed int

	state       driverState
	program     []regWrite
	step        int
	sawBusy     bool
	outstanding string

	monitor *monitoring.Monitor
	bar     *monitoring.ProgressBar
	current Transfer
}

// WatchProgress makes the driver publish a progress bar per transfer on the
// given monitor.
func (c *Comp) WatchProgress(m *monitoring.Monitor) {
	c.monitor = m
}

// EnqueueTransfer adds a transfer to run. Transfers run in order, one at a
// time.
func (c *Comp) EnqueueTransfer(t Transfer) {
	if t.BlockCount == 0 {
		log.Panic("transfer must copy at least one block")
	}

	c.pending = append(c.pending, t)
	c.TickLater()
}

// TransfersCompleted returns the number of transfers that have finished.
func (c *Comp) TransfersCompleted() int {
	return c.completed
}

// Done reports whether all enqueued transfers have finished.
func (c *Comp) Done() bool {
	return c.state == driverIdle && len(c.pending) == 0
}

// ControlPort returns the port the driver talks to the engine through.
func (c *Comp) ControlPort() sim.Port {
	return c.ctrlPort
}

// Tick advances the driver state.
func (c *Comp) Tick() bool {
	madeProgress := false

	madeProgress = c.processRsp() || madeProgress
	madeProgress = c.startTransfer() || madeProgress
	madeProgress = c.issueAccess() || madeProgress

	return madeProgress
}

func (c *Comp) startTransfer() bool {
	if c.state != driverIdle || len(c.pending) == 0 {
		return false
	}

	t := c.pending[0]
	c.pending = c.pending[1:]

	c.program = []regWrite{
		{dma.RegSrcHi, uint32(t.SrcAddr >> 32)},
		{dma.RegSrcLo, uint32(t.SrcAddr)},
		{dma.RegDstHi, uint32(t.DstAddr >> 32)},
		{dma.RegDstLo, uint32(t.DstAddr)},
		{dma.RegCount, t.BlockCount},
		{dma.RegCtlStat, 1},
	}
	c.step = 0
	c.sawBusy = false
	c.state = driverProgramming
	c.current = t

	if c.monitor != nil {
		c.bar = c.monitor.CreateProgressBar(
			fmt.Sprintf("copy to 0x%x", t.DstAddr),
			uint64(t.BlockCount))
		c.bar.IncrementInProgress(uint64(t.BlockCount))
	}

	return true
}

func (c *Comp) issueAccess() bool {
	if c.outstanding != "" {
		return false
	}

	switch c.state {
	case driverProgramming:
		w := c.program[c.step]
		req := dma.RegWriteReqBuilder{}.
			WithSrc(c.ctrlPort.AsRemote()).
			WithDst(c.dmaCtrl).
			WithOffset(w.offset).
			WithData(w.data).
			Build()

		err := c.ctrlPort.Send(req)
		if err != nil {
			return false
		}

		c.outstanding = req.ID

		return true
	case driverPolling:
		req := dma.RegReadReqBuilder{}.
			WithSrc(c.ctrlPort.AsRemote()).
			WithDst(c.dmaCtrl).
			WithOffset(dma.RegCtlStat).
			Build()

		err := c.ctrlPort.Send(req)
		if err != nil {
			return false
		}

		c.outstanding = req.ID

		return true
	}

	return false
}

func (c *Comp) processRsp() bool {
	msg := c.ctrlPort.PeekIncoming()
	if msg == nil {
		return false
	}

	switch rsp := msg.(type) {
	case *dma.RegWriteRsp:
		c.handleWriteRsp(rsp)
	case *dma.RegReadRsp:
		c.handleReadRsp(rsp)
	default:
		log.Panicf("cannot process message %T", msg)
	}

	c.ctrlPort.RetrieveIncoming()

	return true
}

func (c *Comp) handleWriteRsp(rsp *dma.RegWriteRsp) {
	if rsp.RespondTo != c.outstanding {
		log.Panic("response does not match the outstanding request")
	}

	c.outstanding = ""

	c.step++
	if c.step == len(c.program) {
		c.state = driverPolling
	}
}

func (c *Comp) handleReadRsp(rsp *dma.RegReadRsp) {
	if rsp.RespondTo != c.outstanding {
		log.Panic("response does not match the outstanding request")
	}

	c.outstanding = ""

	idle := rsp.Data != 0
	if !idle {
		c.sawBusy = true
		return
	}

	if c.sawBusy {
		c.completed++
		c.state = driverIdle

		if c.bar != nil {
			c.bar.MoveInProgressToFinished(uint64(c.current.BlockCount))
			c.monitor.CompleteProgressBar(c.bar)
			c.bar = nil
		}

		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosTransferDone,
			Item:   c.current,
		})
	}
}
