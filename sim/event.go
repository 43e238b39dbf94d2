package sim

// VTimeInSec is a time in the simulated world, in seconds.
type VTimeInSec float64

// An Event is something that happens at a future simulated time.
type Event interface {
	// Time returns when the event happens.
	Time() VTimeInSec

	// Handler returns the handler that the event is dispatched to.
	Handler() Handler

	// IsSecondary marks events that run after all same-time primary
	// events.
	IsSecondary() bool
}

// A Handler processes the events that are scheduled for it.
type Handler interface {
	Handle(e Event) error
}

// EventBase carries the fields common to all events. Concrete events embed
// it and add their payload.
type EventBase struct {
	ID        string
	time      VTimeInSec
	handler   Handler
	secondary bool
}

// NewEventBase creates an EventBase with a fresh ID.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return &EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// Time returns when the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler that the event is dispatched to.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary returns whether the event runs after same-time primary
// events.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}
