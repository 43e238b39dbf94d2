package dma

import (
	"github.com/sarchlab/blockdma/bus"
	"github.com/sarchlab/blockdma/datarecording"
	"github.com/sarchlab/blockdma/sim"
)

// HookPosBurstComplete marks the completion of a burst on either memory
// bus.
var HookPosBurstComplete = &sim.HookPos{Name: "BurstComplete"}

// BurstDir tells which bus a burst ran on.
type BurstDir string

// Burst directions.
const (
	BurstRead  BurstDir = "read"
	BurstWrite BurstDir = "write"
)

// A BurstEvent describes one completed burst. It is the hook item delivered
// at HookPosBurstComplete.
type BurstEvent struct {
	Dir   BurstDir
	Addr  uint64
	Beats int
	Resp  bus.Resp
	Cycle uint64
}

// A BurstRecord is the database row format for a completed burst.
type BurstRecord struct {
	Cycle uint64
	Dir   string
	Addr  uint64
	Beats int
	Resp  string
}

// A BurstTracer hooks to a DMA component and records every completed burst
// into a database table.
type BurstTracer struct {
	recorder  datarecording.DataRecorder
	tableName string
}

// NewBurstTracer creates a tracer that writes to the given recorder.
func NewBurstTracer(recorder datarecording.DataRecorder) *BurstTracer {
	t := &BurstTracer{
		recorder:  recorder,
		tableName: "dma_bursts",
	}

	recorder.CreateTable(t.tableName, BurstRecord{})

	return t
}

// Func records the burst carried by the hook context.
func (t *BurstTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosBurstComplete {
		return
	}

	evt := ctx.Item.(BurstEvent)

	t.recorder.InsertData(t.tableName, BurstRecord{
		Cycle: evt.Cycle,
		Dir:   string(evt.Dir),
		Addr:  evt.Addr,
		Beats: evt.Beats,
		Resp:  evt.Resp.String(),
	})
}
