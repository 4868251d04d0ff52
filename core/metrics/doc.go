// Package metrics defines the sinks that observe planner activity. A sink
// records every schedule build and may optionally implement DayRecorder or
// TaskChangeRecorder for finer detail. The factory helpers build sinks from
// configuration and combine several into a MultiSink.
package metrics
