// Package eventbus provides in-process fan-out of planner events.
package eventbus

// Event represents an arbitrary event passed on the bus.
type Event interface{}

// EventBus is the untyped publish/subscribe contract used by the planner.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus carries events of any type.
type Bus = TypedBus[Event]

// New creates an untyped Bus with the default buffer.
func New() *Bus { return NewTyped[Event](DefaultBuffer) }

var _ EventBus = (*Bus)(nil)
