package bus

// A Machine is a synchronous state machine that advances one cycle at a
// time. Calc computes the next state and drives output signals, reading
// only currently committed signal and state values. Commit atomically
// applies the state computed by Calc. Reset forces the machine back to its
// initial state and clears all in-flight validity flags.
type Machine interface {
	Calc()
	Commit()
	Reset()
}

type committer interface {
	commit()
	reset()
}

// A Signal carries the registered outputs of exactly one machine. Values
// driven with Set become visible to Get only after the clock commits the
// cycle.
type Signal[T any] struct {
	cur, next T
}

// NewSignal creates a signal and registers it with the clock that commits
// it.
func NewSignal[T any](c *Clock) *Signal[T] {
	s := &Signal[T]{}
	c.addSignal(s)

	return s
}

// Get returns the value committed at the end of the previous cycle.
func (s *Signal[T]) Get() T {
	return s.cur
}

// Set drives the value the signal will hold after the current cycle
// commits. Only the machine that owns the signal may call Set.
func (s *Signal[T]) Set(v T) {
	s.next = v
}

func (s *Signal[T]) commit() {
	s.cur = s.next
}

func (s *Signal[T]) reset() {
	var zero T
	s.cur = zero
	s.next = zero
}

// A Clock advances a set of machines and the signals between them in
// lock-step. Every Tick runs all Calc functions first and commits all
// signals and machine states afterwards, so no machine observes another
// machine's same-cycle update.
type Clock struct {
	machines []Machine
	signals  []committer
	cycle    uint64
}

// NewClock creates an empty clock domain.
func NewClock() *Clock {
	return &Clock{}
}

// AddMachine registers a machine with the clock.
func (c *Clock) AddMachine(m Machine) {
	c.machines = append(c.machines, m)
}

func (c *Clock) addSignal(s committer) {
	c.signals = append(c.signals, s)
}

// Cycle returns the number of cycles that have been completed.
func (c *Clock) Cycle() uint64 {
	return c.cycle
}

// Tick advances the clock domain by one cycle.
func (c *Clock) Tick() {
	for _, m := range c.machines {
		m.Calc()
	}

	for _, s := range c.signals {
		s.commit()
	}

	for _, m := range c.machines {
		m.Commit()
	}

	c.cycle++
}

// TickN advances the clock domain by n cycles.
func (c *Clock) TickN(n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

// Reset forces every machine to its initial state and clears every signal.
func (c *Clock) Reset() {
	for _, s := range c.signals {
		s.reset()
	}

	for _, m := range c.machines {
		m.Reset()
	}

	c.cycle = 0
}
