package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers
// Usage: bus.Publish(ProcessExitEvent{...})
func (b *Bus) Publish(ev Event) {
	// kelindar/event dispatches on the concrete type, so each event type
	// must go through the generic Publish with its static type.
	switch e := ev.(type) {
	case ProcessStdoutEvent:
		event.Publish(b.dispatcher, e)
	case ProcessStderrEvent:
		event.Publish(b.dispatcher, e)
	case ProcessExitEvent:
		event.Publish(b.dispatcher, e)
	case ProcessSpawnedEvent:
		event.Publish(b.dispatcher, e)
	case ProcessKilledEvent:
		event.Publish(b.dispatcher, e)
	case RuntimePathsChangedEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function
// The handler type determines which events it receives (type inference)
// Returns an unsubscribe function
// Usage: unsub := bus.Subscribe(func(e ProcessExitEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(ProcessStdoutEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ProcessStderrEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ProcessExitEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ProcessSpawnedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ProcessKilledEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(RuntimePathsChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		// Return a no-op function if handler type is not recognized
		return func() {}
	}
}
