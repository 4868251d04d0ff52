package mqtt

import (
	"context"

	"github.com/kilianp07/planner/core/events"
	"github.com/kilianp07/planner/internal/eventbus"
)

// Notifier forwards planner events from the bus to MQTT.
type Notifier struct {
	pub *Publisher
	// Snapshot, when set, is published on the schedule topic after each build.
	Snapshot func() any
}

// NewNotifier wraps pub.
func NewNotifier(pub *Publisher) *Notifier {
	return &Notifier{pub: pub}
}

// Start subscribes to bus and forwards events in the background until ctx is
// canceled or the bus is closed. Events published after Start returns are
// delivered. The returned channel is closed when forwarding stops.
func (n *Notifier) Start(ctx context.Context, bus eventbus.EventBus) <-chan struct{} {
	sub := bus.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				n.handle(ev)
			}
		}
	}()
	return done
}

func (n *Notifier) handle(ev eventbus.Event) {
	var err error
	switch e := ev.(type) {
	case events.BuildEvent:
		err = n.pub.PublishJSON(TopicBuild, e, false)
		if err == nil && n.Snapshot != nil {
			err = n.pub.PublishSchedule(n.Snapshot())
		}
	case events.TaskEvent:
		err = n.pub.PublishJSON(TopicTask, e, false)
	default:
		return
	}
	if err != nil {
		n.pub.logger.Errorf("notify: %v", err)
	}
}
