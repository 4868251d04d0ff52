package metrics

import "time"

// BuildResult summarises one schedule build.
type BuildResult struct {
	RunID          string
	Strategy       string
	Days           int
	Errors         int
	Pending        int
	Completed      int
	Archived       int
	HoursScheduled float64
	Duration       time.Duration
	Time           time.Time
}

// MetricsSink records schedule builds for observability purposes.
type MetricsSink interface {
	RecordBuild(res BuildResult) error
}

// DayResult is the outcome of filling a single day.
type DayResult struct {
	RunID       string
	DayID       int
	Date        time.Time
	Capacity    float64
	Filled      float64
	Allocations int
	Errors      int
}

// Utilization is the filled share of capacity. Days without capacity report
// zero unless they carry forced work.
func (d DayResult) Utilization() float64 {
	if d.Capacity <= 0 {
		if d.Filled > 0 {
			return 1
		}
		return 0
	}
	return d.Filled / d.Capacity
}

// DayRecorder is implemented by sinks able to record per-day outcomes.
type DayRecorder interface {
	RecordDays(days []DayResult) error
}

// TaskChange captures a change to the task set.
type TaskChange struct {
	Action string
	TaskID int
	Hours  float64
	Time   time.Time
}

// TaskChangeRecorder is implemented by sinks tracking task set changes.
type TaskChangeRecorder interface {
	RecordTaskChange(ev TaskChange) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordBuild(BuildResult) error     { return nil }
func (NopSink) RecordDays([]DayResult) error      { return nil }
func (NopSink) RecordTaskChange(TaskChange) error { return nil }
