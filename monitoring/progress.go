package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar reports how far some long-running work has advanced. It is
// safe to update from the simulation thread while the monitoring server
// serializes it.
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// IncrementInProgress marks more elements as started but not yet done.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.update(func() { b.InProgress += amount })
}

// IncrementFinished marks more elements as done.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.update(func() { b.Finished += amount })
}

// MoveInProgressToFinished retires elements that were previously marked as
// in progress.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.update(func() {
		b.InProgress -= amount
		b.Finished += amount
	})
}

// Fraction returns the finished share of the total, in the range [0, 1].
// A bar with an unknown total reports 0.
func (b *ProgressBar) Fraction() float64 {
	b.Lock()
	defer b.Unlock()

	if b.Total == 0 {
		return 0
	}

	return float64(b.Finished) / float64(b.Total)
}

func (b *ProgressBar) update(f func()) {
	b.Lock()
	defer b.Unlock()

	f()
}
