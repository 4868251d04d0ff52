package scheduler

import (
	"fmt"

	"github.com/kilianp07/planner/core/factory"
)

var registry = factory.NewRegistry[Options, Scheduler]()

func init() {
	_ = Register("compact", func(o Options) (Scheduler, error) { return NewCompactScheduler(o), nil })
	_ = Register("dynamic", func(o Options) (Scheduler, error) { return NewDynamicScheduler(o), nil })
}

// Register adds a strategy factory identified by name.
func Register(name string, f factory.Factory[Options, Scheduler]) error {
	return registry.Register(name, f)
}

// Known reports whether a strategy is registered under name.
func Known(name string) bool { return registry.Has(name) }

// Names lists the registered strategies.
func Names() []string { return registry.Names() }

// New creates the strategy registered under name.
func New(name string, opts Options) (Scheduler, error) {
	s, err := registry.Create(name, opts)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w (available: %v)", err, Names())
	}
	return s, nil
}
