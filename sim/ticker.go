package sim

import "sync"

// TickEvent is the generic event that drives cycle-based components.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a tick event for the given handler and time.
func MakeTickEvent(handler Handler, time VTimeInSec) TickEvent {
	evt := TickEvent{}
	evt.ID = GetIDGenerator().Generate()
	evt.handler = handler
	evt.time = time

	return evt
}

// A Ticker updates its state one cycle at a time. Tick returns whether any
// progress was made; a ticker that made no progress stops being scheduled
// until something notifies it again.
type Ticker interface {
	Tick() bool
}

// TickScheduler schedules tick events on behalf of a handler, coalescing
// requests so that at most one tick is pending per cycle.
type TickScheduler struct {
	handler   Handler
	secondary bool

	Freq   Freq
	Engine Engine

	lock         sync.Mutex
	nextTickTime VTimeInSec
}

// NewTickScheduler creates a scheduler that schedules primary tick events.
func NewTickScheduler(
	handler Handler,
	engine Engine,
	freq Freq,
) *TickScheduler {
	return newTickScheduler(handler, engine, freq, false)
}

// NewSecondaryTickScheduler creates a scheduler whose tick events run after
// all primary events of the same cycle.
func NewSecondaryTickScheduler(
	handler Handler,
	engine Engine,
	freq Freq,
) *TickScheduler {
	return newTickScheduler(handler, engine, freq, true)
}

func newTickScheduler(
	handler Handler,
	engine Engine,
	freq Freq,
	secondary bool,
) *TickScheduler {
	return &TickScheduler{
		handler:   handler,
		secondary: secondary,
		Freq:      freq,
		Engine:    engine,

		// Guarantees the very first request schedules a tick.
		nextTickTime: -1,
	}
}

// TickNow schedules a tick event in the current cycle.
func (t *TickScheduler) TickNow() {
	t.scheduleTickAt(t.Freq.ThisTick(t.CurrentTime()))
}

// TickLater schedules a tick event in the cycle after the current time.
func (t *TickScheduler) TickLater() {
	t.scheduleTickAt(t.Freq.NextTick(t.CurrentTime()))
}

func (t *TickScheduler) scheduleTickAt(time VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.nextTickTime >= time {
		return
	}

	t.nextTickTime = time

	tick := MakeTickEvent(t.handler, time)
	tick.secondary = t.secondary

	t.Engine.Schedule(tick)
}

// CurrentTime returns the current time of the engine.
func (t *TickScheduler) CurrentTime() VTimeInSec {
	return t.Engine.CurrentTime()
}

// TickingComponent is a component that advances its state cycle by cycle.
// Implementations only provide the Tick function; scheduling, receive
// notifications, and port-freed notifications are handled here.
type TickingComponent struct {
	*ComponentBase
	*TickScheduler

	ticker Ticker
}

// NewTickingComponent creates a component driven by primary tick events.
func NewTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := &TickingComponent{ticker: ticker}
	tc.TickScheduler = NewTickScheduler(tc, engine, freq)
	tc.ComponentBase = NewComponentBase(name)

	return tc
}

// NewSecondaryTickingComponent creates a component driven by secondary tick
// events.
func NewSecondaryTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := &TickingComponent{ticker: ticker}
	tc.TickScheduler = NewSecondaryTickScheduler(tc, engine, freq)
	tc.ComponentBase = NewComponentBase(name)

	return tc
}

// NotifyPortFree wakes the component up when a congested port drains.
func (c *TickingComponent) NotifyPortFree(_ Port) {
	c.TickLater()
}

// NotifyRecv wakes the component up when a message arrives.
func (c *TickingComponent) NotifyRecv(_ Port) {
	c.TickLater()
}

// Handle runs the tick function and keeps the component ticking for as long
// as it makes progress.
func (c *TickingComponent) Handle(_ Event) error {
	if c.ticker.Tick() {
		c.TickLater()
	}

	return nil
}
