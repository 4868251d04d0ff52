package events

import "time"

// Task actions carried by TaskEvent.
const (
	TaskAdded    = "added"
	TaskEdited   = "edited"
	TaskRemoved  = "removed"
	TaskArchived = "archived"
)

// TaskEvent is published when the task set changes.
type TaskEvent struct {
	Action  string    `json:"action"`
	TaskID  int       `json:"task_id"`
	Name    string    `json:"name"`
	Hours   float64   `json:"hours"`
	DueDate time.Time `json:"due_date"`
	At      time.Time `json:"at"`
}
