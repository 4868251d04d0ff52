package planner

import (
	"time"

	"github.com/kilianp07/planner/core/model"
)

// DateLayout formats calendar dates in views.
const DateLayout = "2006-01-02"

// TaskView is a read-only copy of a task.
type TaskView struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Hours     float64 `json:"hours"`
	Remaining float64 `json:"remaining"`
	Due       string  `json:"due"`
}

// AllocationView is a read-only copy of an allocation.
type AllocationView struct {
	TaskID int       `json:"task_id"`
	Name   string    `json:"name"`
	Hours  float64   `json:"hours"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// DayView is a read-only copy of a scheduled day.
type DayView struct {
	ID          int              `json:"id"`
	Date        string           `json:"date"`
	Weekday     string           `json:"weekday"`
	Capacity    float64          `json:"capacity"`
	Filled      float64          `json:"filled"`
	Spare       float64          `json:"spare"`
	Allocations []AllocationView `json:"allocations"`
}

// Snapshot is a JSON-ready copy of the manager state. It does not share memory
// with the manager and stays valid across later builds.
type Snapshot struct {
	RunID     string     `json:"run_id,omitempty"`
	BuiltAt   time.Time  `json:"built_at"`
	Strategy  string     `json:"strategy"`
	Errors    int        `json:"errors"`
	Days      []DayView  `json:"days"`
	Pending   []TaskView `json:"pending"`
	Completed []TaskView `json:"completed"`
	Archived  []TaskView `json:"archived"`
}

// Snapshot copies the latest schedule and task sets.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		RunID:     m.lastRun,
		BuiltAt:   m.builtAt,
		Strategy:  m.strategy.Name(),
		Errors:    m.errors,
		Days:      make([]DayView, 0, len(m.days)),
		Pending:   taskViews(m.pending.Tasks()),
		Completed: taskViews(m.completed.Tasks()),
		Archived:  taskViews(m.archived),
	}
	for _, d := range m.days {
		s.Days = append(s.Days, dayView(d))
	}
	return s
}

func dayView(d *model.Day) DayView {
	v := DayView{
		ID:          d.ID(),
		Date:        d.Date().Format(DateLayout),
		Weekday:     d.Date().Weekday().String(),
		Capacity:    d.Capacity(),
		Filled:      d.HoursFilled(),
		Spare:       d.SpareHours(),
		Allocations: make([]AllocationView, 0, d.NumAllocations()),
	}
	for _, a := range d.Allocations() {
		v.Allocations = append(v.Allocations, AllocationView{
			TaskID: a.Task.ID,
			Name:   a.Task.Name,
			Hours:  a.Hours,
			Start:  a.Start,
			End:    a.End,
		})
	}
	return v
}

// NewTaskView copies t.
func NewTaskView(t *model.Task) TaskView {
	return TaskView{
		ID:        t.ID,
		Name:      t.Name,
		Hours:     t.TotalHours(),
		Remaining: t.Remaining(),
		Due:       t.DueDate().Format(DateLayout),
	}
}

func taskViews(tasks []*model.Task) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskView(t))
	}
	return out
}
