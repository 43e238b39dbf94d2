package sim

// A TimeTeller reports the current simulated time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// An EventScheduler accepts events to be triggered in the future.
type EventScheduler interface {
	Schedule(e Event)
}

// A SimulationEndHandler runs once when the simulation completes, for
// example to flush buffered results.
type SimulationEndHandler interface {
	Handle(now VTimeInSec)
}

// An Engine drives a discrete event simulation. It owns the event queues,
// advances time, and dispatches each event to its handler.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run triggers events in time order until no event is left.
	Run() error

	// Pause stops the engine from triggering events until Continue is
	// called.
	Pause()

	// Continue resumes a paused engine.
	Continue()

	// RegisterSimulationEndHandler adds a handler to run when the
	// simulation completes.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished runs all the registered simulation-end handlers.
	Finished()
}
