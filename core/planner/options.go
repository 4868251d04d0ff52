package planner

import (
	"github.com/kilianp07/planner/core/clock"
	"github.com/kilianp07/planner/core/eventlog"
	"github.com/kilianp07/planner/core/logger"
	"github.com/kilianp07/planner/core/metrics"
	"github.com/kilianp07/planner/core/scheduler"
	"github.com/kilianp07/planner/internal/eventbus"
)

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source. Defaults to the system clock.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics sets the sink receiving build and day results.
func WithMetrics(s metrics.MetricsSink) Option {
	return func(m *Manager) {
		if s != nil {
			m.metrics = s
		}
	}
}

// WithEventBus sets the bus on which task and build events are published.
func WithEventBus(b eventbus.EventBus) Option {
	return func(m *Manager) { m.bus = b }
}

// WithLogStore sets the store receiving the audit trail.
func WithLogStore(s eventlog.LogStore) Option {
	return func(m *Manager) {
		if s != nil {
			m.store = s
		}
	}
}

// WithScheduler overrides the strategy named in the configuration.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(m *Manager) { m.strategy = s }
}
