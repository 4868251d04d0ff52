package events

import "time"

// BuildEvent is emitted once a schedule has been rebuilt.
type BuildEvent struct {
	RunID     string        `json:"run_id"`
	Strategy  string        `json:"strategy"`
	Days      int           `json:"days"`
	Errors    int           `json:"errors"`
	Pending   int           `json:"pending"`
	Completed int           `json:"completed"`
	Archived  int           `json:"archived"`
	Hours     float64       `json:"hours"`
	Duration  time.Duration `json:"duration"`
	At        time.Time     `json:"at"`
}
