package metrics

import "errors"

// MultiSink fans out records to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordBuild forwards the build to every sink and joins their errors.
func (m *MultiSink) RecordBuild(res BuildResult) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordBuild(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordDays forwards day results to sinks implementing DayRecorder.
func (m *MultiSink) RecordDays(days []DayResult) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(DayRecorder); ok {
			if err := r.RecordDays(days); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordTaskChange forwards task changes to sinks implementing TaskChangeRecorder.
func (m *MultiSink) RecordTaskChange(ev TaskChange) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(TaskChangeRecorder); ok {
			if err := r.RecordTaskChange(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
