package sim

import (
	"log"
	"math"
)

// Freq is a clock frequency in Hz.
type Freq float64

// Frequency units.
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

func mustBeRealTime(t VTimeInSec) {
	if math.IsNaN(float64(t)) {
		log.Panic("invalid time")
	}
}

// Period returns the duration of one cycle.
func (f Freq) Period() VTimeInSec {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}

	return VTimeInSec(1.0 / f)
}

// Cycle converts a time into the number of cycles passed since time 0.
func (f Freq) Cycle(t VTimeInSec) uint64 {
	return uint64(math.Round(float64(t) * float64(f)))
}

// ThisTick returns the tick time at or immediately before a tick boundary:
// a time that falls exactly on a tick maps to itself, any later time maps
// to the next tick. The multiply-by-ten rounding absorbs floating-point
// noise from repeated tick arithmetic.
func (f Freq) ThisTick(now VTimeInSec) VTimeInSec {
	mustBeRealTime(now)

	count := math.Ceil(math.Round(float64(now)*10*float64(f)) / 10)

	return VTimeInSec(count / float64(f))
}

// NextTick returns the first tick time strictly after the current tick: a
// time that falls exactly on a tick maps to the tick after it.
func (f Freq) NextTick(now VTimeInSec) VTimeInSec {
	mustBeRealTime(now)

	count := math.Floor(math.Round(float64(now)*10*float64(f)) / 10)

	return VTimeInSec((count + 1) / float64(f))
}

// NCyclesLater returns the tick time n cycles after now. The result always
// lies on a tick boundary.
func (f Freq) NCyclesLater(n int, now VTimeInSec) VTimeInSec {
	mustBeRealTime(now)

	return f.ThisTick(now + VTimeInSec(Freq(n)/f))
}

// NoEarlierThan returns the tick time at or right after the given time.
func (f Freq) NoEarlierThan(t VTimeInSec) VTimeInSec {
	mustBeRealTime(t)

	count := t / f.Period()

	return VTimeInSec(math.Ceil(float64(count))) * f.Period()
}
