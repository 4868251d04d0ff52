package metrics

import (
	"context"

	"github.com/kilianp07/planner/core/events"
	coremetrics "github.com/kilianp07/planner/core/metrics"
	"github.com/kilianp07/planner/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records task changes on
// sinks that support them. It stops when the context is canceled or the bus
// is closed.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	rec, ok := sink.(coremetrics.TaskChangeRecorder)
	if !ok {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if e, ok := ev.(events.TaskEvent); ok {
					_ = rec.RecordTaskChange(coremetrics.TaskChange{
						Action: e.Action,
						TaskID: e.TaskID,
						Hours:  e.Hours,
						Time:   e.At,
					})
				}
			}
		}
	}()
}
