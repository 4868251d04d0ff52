package metrics

import (
	"strconv"

	coremetrics "github.com/kilianp07/planner/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records planner activity in Prometheus metrics.
type PromSink struct {
	builds      *prometheus.CounterVec
	errors      prometheus.Gauge
	pending     prometheus.Gauge
	hours       prometheus.Gauge
	duration    prometheus.Histogram
	utilization *prometheus.GaugeVec
	changes     *prometheus.CounterVec
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_builds_total",
			Help: "Total number of schedule builds",
		}, []string{"strategy", "clean"}),
		errors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_schedule_errors",
			Help: "Allocation failures in the latest schedule",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_pending_tasks",
			Help: "Tasks left unscheduled by the latest build",
		}),
		hours: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_scheduled_hours",
			Help: "Hours placed by the latest build",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_build_duration_seconds",
			Help:    "Time spent building a schedule",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "planner_day_utilization_ratio",
			Help: "Filled hours over capacity per scheduled day offset",
		}, []string{"day"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_task_changes_total",
			Help: "Task set changes by action",
		}, []string{"action"}),
	}
	var err error
	if s.builds, err = register(reg, s.builds); err != nil {
		return nil, err
	}
	if s.errors, err = register(reg, s.errors); err != nil {
		return nil, err
	}
	if s.pending, err = register(reg, s.pending); err != nil {
		return nil, err
	}
	if s.hours, err = register(reg, s.hours); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.utilization, err = register(reg, s.utilization); err != nil {
		return nil, err
	}
	if s.changes, err = register(reg, s.changes); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing an identical collector that is already
// registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordBuild updates the build counters and latest-build gauges.
func (s *PromSink) RecordBuild(res coremetrics.BuildResult) error {
	s.builds.WithLabelValues(res.Strategy, strconv.FormatBool(res.Errors == 0)).Inc()
	s.errors.Set(float64(res.Errors))
	s.pending.Set(float64(res.Pending))
	s.hours.Set(res.HoursScheduled)
	s.duration.Observe(res.Duration.Seconds())
	return nil
}

// RecordDays replaces the per-day utilization series with the new schedule.
func (s *PromSink) RecordDays(days []coremetrics.DayResult) error {
	s.utilization.Reset()
	for _, d := range days {
		s.utilization.WithLabelValues(strconv.Itoa(d.DayID)).Set(d.Utilization())
	}
	return nil
}

// RecordTaskChange counts task set changes.
func (s *PromSink) RecordTaskChange(ev coremetrics.TaskChange) error {
	s.changes.WithLabelValues(ev.Action).Inc()
	return nil
}
