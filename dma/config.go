// Package dma implements a block-oriented DMA engine that moves fixed-size
// blocks between two burst bus endpoints through a two-block staging FIFO,
// configured through a memory-mapped register file.
package dma

import "log"

// StartMode selects how the engine sources the transfer parameters when the
// control register is written.
type StartMode int

const (
	// StartModeRegisters honors the caller-programmed source address,
	// destination address, and block count.
	StartModeRegisters StartMode = iota

	// StartModeDebugPreset reproduces a debug leftover found in one
	// hardware variant: every control-register write overwrites SRC_L,
	// DST_H, DST_L, and COUNT with fixed constants before starting.
	StartModeDebugPreset
)

// ErrorPolicy selects what the engine does with the response codes the bus
// masters capture on each burst.
type ErrorPolicy int

const (
	// ErrorPolicyReport latches a sticky fault flag when any burst returns
	// SLVERR. The transfer still runs to completion; the design has no
	// retry or abort path.
	ErrorPolicyReport ErrorPolicy = iota

	// ErrorPolicyIgnore captures the response codes into master-local
	// state without ever acting on them, matching the original hardware.
	ErrorPolicyIgnore
)

// The register values StartModeDebugPreset forces on every control-register
// write.
const (
	DebugPresetSrcLo uint32 = 0xC0000000
	DebugPresetDstHi uint32 = 0x00000000
	DebugPresetDstLo uint32 = 0xC2000000
	DebugPresetCount uint32 = 3
)

// Config carries the per-deployment parameters of the engine. Data width,
// block size, and address offsets are construction-time configuration, not
// constants baked into the state machines.
type Config struct {
	// DataWidthBits is the width of one beat on both bus sides.
	DataWidthBits int

	// BlockBytes is the transfer granule. Bursts are sized and aligned so
	// they never cross a block boundary.
	BlockBytes uint64

	// FIFOCapacityBlocks is the staging buffer capacity at block
	// granularity.
	FIFOCapacityBlocks int

	// DstWindowOffset is added to the programmed destination address when
	// a transfer starts.
	DstWindowOffset uint64

	StartMode   StartMode
	ErrorPolicy ErrorPolicy
}

// DefaultConfig returns the configuration of the reference deployment:
// 64-bit data path, 4096-byte blocks, a two-block staging buffer, and
// caller-controlled transfer parameters.
func DefaultConfig() Config {
	return Config{
		DataWidthBits:      64,
		BlockBytes:         4096,
		FIFOCapacityBlocks: 2,
		DstWindowOffset:    0,
		StartMode:          StartModeRegisters,
		ErrorPolicy:        ErrorPolicyReport,
	}
}

// BeatBytes returns the number of bytes moved per beat.
func (c Config) BeatBytes() uint64 {
	return uint64(c.DataWidthBits / 8)
}

// BeatsPerBlock returns the fixed burst length in beats.
func (c Config) BeatsPerBlock() int {
	return int(c.BlockBytes / c.BeatBytes())
}

func (c Config) mustBeValid() {
	switch c.DataWidthBits {
	case 8, 16, 32, 64:
	default:
		log.Panicf("unsupported data width %d", c.DataWidthBits)
	}

	if c.BlockBytes == 0 || c.BlockBytes%c.BeatBytes() != 0 {
		log.Panicf("block size %d is not a multiple of the beat size",
			c.BlockBytes)
	}

	if c.FIFOCapacityBlocks < 1 {
		log.Panicf("staging buffer must hold at least one block")
	}
}
