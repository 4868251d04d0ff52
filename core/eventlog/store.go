// Package eventlog persists an audit trail of planner activity: task changes,
// per-day allocation outcomes and build summaries.
package eventlog

import (
	"context"
	"time"
)

// Record kinds.
const (
	KindTask  = "task"
	KindDay   = "day"
	KindBuild = "build"
)

// LogRecord captures one planner action.
type LogRecord struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id,omitempty"`
	Kind      string    `json:"kind"`
	Action    string    `json:"action"`
	TaskID    int       `json:"task_id,omitempty"`
	DayID     int       `json:"day_id,omitempty"`
	Hours     float64   `json:"hours,omitempty"`
	Errors    int       `json:"errors,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// LogQuery defines filters for retrieving records. Zero values match all.
type LogQuery struct {
	Start time.Time
	End   time.Time
	Kind  string
	RunID string
}

// Match reports whether r passes the filters in q.
func (q LogQuery) Match(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	return true
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// NopStore discards every record.
type NopStore struct{}

func (NopStore) Append(context.Context, LogRecord) error              { return nil }
func (NopStore) Query(context.Context, LogQuery) ([]LogRecord, error) { return nil, nil }
func (NopStore) Close() error                                         { return nil }
