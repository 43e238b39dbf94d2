package dma

import "log"

// stagingBuffer is the FIFO between the two bus masters. It holds beats at
// word granularity and tracks occupancy at block granularity in a separate
// counter: the counter is incremented when a read burst completes and
// decremented when a write burst's response completes.
//
// The buffer observes both buses directly so that a same-cycle push and pop
// (or increment and decrement) are both honored at commit, never one
// clobbering the other.
type stagingBuffer struct {
	core *Core

	wordCapacity  int
	blockCapacity int

	words     []uint64
	occupancy int

	pendPush []uint64
	pendPop  int
	pendInc  bool
	pendDec  bool
}

func newStagingBuffer(core *Core) *stagingBuffer {
	cfg := core.cfg

	return &stagingBuffer{
		core:          core,
		wordCapacity:  cfg.FIFOCapacityBlocks * cfg.BeatsPerBlock(),
		blockCapacity: cfg.FIFOCapacityBlocks,
	}
}

// Occupancy returns the number of complete blocks queued, as committed at
// the end of the previous cycle.
func (s *stagingBuffer) Occupancy() int {
	return s.occupancy
}

// Words returns the number of beats queued.
func (s *stagingBuffer) Words() int {
	return len(s.words)
}

// WordAt returns the i-th queued beat counted from the head.
func (s *stagingBuffer) WordAt(i int) uint64 {
	return s.words[i]
}

func (s *stagingBuffer) Calc() {
	src := s.core.SrcBus
	dst := s.core.DstBus

	if src.DataFired() {
		s.pendPush = append(s.pendPush, src.S.Get().RData)

		if src.S.Get().RLast {
			s.pendInc = true
		}
	}

	if dst.DataFired() {
		s.pendPop++
	}

	if dst.RespFired() {
		s.pendDec = true
	}
}

func (s *stagingBuffer) Commit() {
	for i := 0; i < s.pendPop; i++ {
		if len(s.words) == 0 {
			log.Panic("staging buffer pop on empty queue")
		}
		s.words = s.words[1:]
	}

	s.words = append(s.words, s.pendPush...)
	if len(s.words) > s.wordCapacity {
		log.Panicf("staging buffer overflow: %d words, capacity %d",
			len(s.words), s.wordCapacity)
	}

	if s.pendInc {
		s.occupancy++
	}
	if s.pendDec {
		s.occupancy--
	}

	if s.occupancy < 0 || s.occupancy > s.blockCapacity {
		log.Panicf("staging buffer occupancy %d out of range [0, %d]",
			s.occupancy, s.blockCapacity)
	}

	s.pendPush = nil
	s.pendPop = 0
	s.pendInc = false
	s.pendDec = false
}

func (s *stagingBuffer) Reset() {
	s.words = nil
	s.occupancy = 0
	s.pendPush = nil
	s.pendPop = 0
	s.pendInc = false
	s.pendDec = false
}
