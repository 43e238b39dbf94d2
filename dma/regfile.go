package dma

import "github.com/sarchlab/blockdma/bus"

// Byte offsets of the memory-mapped registers. Accesses decode the word
// index (offset >> 2), so the low two offset bits are ignored.
const (
	RegSrcHi   uint64 = 0x00
	RegSrcLo   uint64 = 0x04
	RegDstHi   uint64 = 0x08
	RegDstLo   uint64 = 0x0C
	RegCount   uint64 = 0x10
	RegCtlStat uint64 = 0x14
)

// IllegalReadData is returned for a read of any unmapped offset.
const IllegalReadData uint32 = 0x0DEC0DE0

// regFile holds the five stored transfer-configuration registers. CTL_STAT
// is synthesized from the orchestrator state and is not stored. The file is
// written only by the configuration slave; writes that land while a
// transfer is running are stored but take effect on the next transfer only.
type regFile struct {
	srcHi uint32
	srcLo uint32
	dstHi uint32
	dstLo uint32
	count uint32
}

// read decodes a register read. idle is the orchestrator's idle predicate
// sampled on the cycle the access completes.
func (r *regFile) read(offset uint64, idle bool) (uint32, bus.Resp) {
	switch offset >> 2 {
	case RegSrcHi >> 2:
		return r.srcHi, bus.RespOKAY
	case RegSrcLo >> 2:
		return r.srcLo, bus.RespOKAY
	case RegDstHi >> 2:
		return r.dstHi, bus.RespOKAY
	case RegDstLo >> 2:
		return r.dstLo, bus.RespOKAY
	case RegCount >> 2:
		return r.count, bus.RespOKAY
	case RegCtlStat >> 2:
		if idle {
			return 1, bus.RespOKAY
		}
		return 0, bus.RespOKAY
	default:
		return IllegalReadData, bus.RespSLVERR
	}
}

// write commits a register write and returns its response code. A write to
// an unmapped offset is ignored. A write to CTL_STAT does not store
// anything; starting the transfer is the configuration slave's concern.
func (r *regFile) write(offset uint64, value uint32) bus.Resp {
	switch offset >> 2 {
	case RegSrcHi >> 2:
		r.srcHi = value
	case RegSrcLo >> 2:
		r.srcLo = value
	case RegDstHi >> 2:
		r.dstHi = value
	case RegDstLo >> 2:
		r.dstLo = value
	case RegCount >> 2:
		r.count = value
	case RegCtlStat >> 2:
	default:
		return bus.RespSLVERR
	}

	return bus.RespOKAY
}

func (r *regFile) applyDebugPreset() {
	r.srcLo = DebugPresetSrcLo
	r.dstHi = DebugPresetDstHi
	r.dstLo = DebugPresetDstLo
	r.count = DebugPresetCount
}

func (r *regFile) srcAddr() uint64 {
	return uint64(r.srcHi)<<32 | uint64(r.srcLo)
}

func (r *regFile) dstAddr() uint64 {
	return uint64(r.dstHi)<<32 | uint64(r.dstLo)
}

func (r *regFile) blockCount() uint32 {
	return r.count
}
