package model

import (
	"fmt"
	"time"

	"github.com/kilianp07/planner/core/clock"
)

// Task is a unit of work that must be fully scheduled by its due date.
type Task struct {
	ID   int
	Name string

	totalHours float64
	remaining  float64
	due        time.Time
}

// NewTask creates a task due days calendar days after created. The due date is
// truncated to midnight and never changes afterwards.
func NewTask(id int, name string, hours float64, created time.Time, days int) (*Task, error) {
	if days < 0 {
		return nil, fmt.Errorf("task %q: days must not be negative", name)
	}
	return NewTaskDue(id, name, hours, clock.AddDays(created, days))
}

// NewTaskDue creates a task with an explicit due date.
func NewTaskDue(id int, name string, hours float64, due time.Time) (*Task, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("task %q: hours must be positive", name)
	}
	if due.IsZero() {
		return nil, fmt.Errorf("task %q: due date is required", name)
	}
	return &Task{
		ID:         id,
		Name:       name,
		totalHours: hours,
		remaining:  hours,
		due:        clock.StartOfDay(due),
	}, nil
}

// TotalHours returns the hours the task requires.
func (t *Task) TotalHours() float64 { return t.totalHours }

// Remaining returns the hours not yet allocated.
func (t *Task) Remaining() float64 { return t.remaining }

// DueDate returns the midnight of the due day.
func (t *Task) DueDate() time.Time { return t.due }

// Finished reports whether every hour has been allocated.
func (t *Task) Finished() bool { return t.remaining == 0 }

// Reset restores the remaining hours to the total.
func (t *Task) Reset() { t.remaining = t.totalHours }

// Less orders tasks by due date, then by id.
func (t *Task) Less(o *Task) bool {
	if !t.due.Equal(o.due) {
		return t.due.Before(o.due)
	}
	return t.ID < o.ID
}

// consume removes hours from the remaining budget. It is only reachable
// through Day allocations, which check the bounds first.
func (t *Task) consume(hours float64) {
	t.remaining -= hours
	if t.remaining < 1e-9 {
		t.remaining = 0
	}
}

func (t *Task) String() string {
	return fmt.Sprintf("T%d %s (%.1f/%.1fh due %s)", t.ID, t.Name, t.remaining, t.totalHours, t.due.Format("2006-01-02"))
}
