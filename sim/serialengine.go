package sim

import (
	"log"
	"reflect"
	"sync"
)

// A SerialEngine triggers events one by one in a single goroutine. Events
// at the same time run in scheduling order, except that secondary events
// always run after all primary events of that time.
type SerialEngine struct {
	HookableBase

	nowMu sync.RWMutex
	now   VTimeInSec

	primaryEvents   EventQueue
	secondaryEvents EventQueue

	runMu sync.Mutex

	pauseMu  sync.Mutex
	stepLock sync.Mutex
	paused   bool

	endHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		primaryEvents:   NewEventQueue(),
		secondaryEvents: NewEventQueue(),
	}
}

// Schedule queues an event. Scheduling before the current time is a bug in
// the caller and panics.
func (e *SerialEngine) Schedule(evt Event) {
	if evt.Time() < e.CurrentTime() {
		log.Panic("scheduling an event earlier than current time")
	}

	if evt.IsSecondary() {
		e.secondaryEvents.Push(evt)
		return
	}

	e.primaryEvents.Push(evt)
}

// Run triggers all scheduled events in time order. It returns when both
// queues are drained, including events scheduled while running.
func (e *SerialEngine) Run() error {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	for e.hasEvent() {
		e.triggerNextEvent()
	}

	return nil
}

func (e *SerialEngine) hasEvent() bool {
	return e.primaryEvents.Len() > 0 || e.secondaryEvents.Len() > 0
}

func (e *SerialEngine) triggerNextEvent() {
	e.stepLock.Lock()
	defer e.stepLock.Unlock()

	evt := e.popEarliestEvent()

	now := e.CurrentTime()
	if evt.Time() < now {
		log.Panicf(
			"cannot run event in the past, evt %s @ %.10f, now %.10f",
			reflect.TypeOf(evt), evt.Time(), now,
		)
	}
	e.advanceTime(evt.Time())

	ctx := HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(ctx)

	_ = evt.Handler().Handle(evt)

	ctx.Pos = HookPosAfterEvent
	e.InvokeHook(ctx)
}

// popEarliestEvent picks across the two queues. Ties go to the primary
// queue so that secondary events of a cycle run after the primary ones.
func (e *SerialEngine) popEarliestEvent() Event {
	switch {
	case e.primaryEvents.Len() == 0:
		return e.secondaryEvents.Pop()
	case e.secondaryEvents.Len() == 0:
		return e.primaryEvents.Pop()
	case e.primaryEvents.Peek().Time() <= e.secondaryEvents.Peek().Time():
		return e.primaryEvents.Pop()
	default:
		return e.secondaryEvents.Pop()
	}
}

func (e *SerialEngine) advanceTime(t VTimeInSec) {
	e.nowMu.Lock()
	e.now = t
	e.nowMu.Unlock()
}

// Pause blocks the engine before its next event. Pausing twice without a
// Continue in between has no extra effect.
func (e *SerialEngine) Pause() {
	e.pauseMu.Lock()
	defer e.pauseMu.Unlock()

	if e.paused {
		return
	}

	e.stepLock.Lock()
	e.paused = true
}

// Continue lets a paused engine trigger events again.
func (e *SerialEngine) Continue() {
	e.pauseMu.Lock()
	defer e.pauseMu.Unlock()

	if !e.paused {
		return
	}

	e.stepLock.Unlock()
	e.paused = false
}

// CurrentTime returns the time of the event being triggered, or of the last
// triggered event when the engine is between events.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	e.nowMu.RLock()
	defer e.nowMu.RUnlock()

	return e.now
}

// RegisterSimulationEndHandler adds a handler to run when Finished is
// called.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.endHandlers = append(e.endHandlers, handler)
}

// Finished runs the registered simulation-end handlers in registration
// order.
func (e *SerialEngine) Finished() {
	now := e.CurrentTime()
	for _, h := range e.endHandlers {
		h.Handle(now)
	}
}
