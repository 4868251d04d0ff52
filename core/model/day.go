package model

import (
	"time"

	"github.com/kilianp07/planner/core/clock"
)

// Allocation records hours of one task placed into a day.
type Allocation struct {
	Task  *Task
	Hours float64
	Start time.Time
	End   time.Time
}

// Day is one calendar day of the schedule with a fixed hour budget.
type Day struct {
	id          int
	date        time.Time
	capacity    float64
	filled      float64
	start       time.Time
	allocations []Allocation
}

// NewDay creates an empty day. Allocations are stamped from the day's
// midnight until StartAt sets a later position.
func NewDay(id int, capacity float64, date time.Time) *Day {
	d := clock.StartOfDay(date)
	return &Day{id: id, date: d, capacity: capacity, start: d}
}

// StartAt sets the instant at which the first allocation begins.
func (d *Day) StartAt(t time.Time) { d.start = t }

func (d *Day) ID() int                     { return d.id }
func (d *Day) Date() time.Time             { return d.date }
func (d *Day) Capacity() float64           { return d.capacity }
func (d *Day) HoursFilled() float64        { return d.filled }
func (d *Day) Start() time.Time            { return d.start }
func (d *Day) NumAllocations() int         { return len(d.allocations) }
func (d *Day) HasSpareHours() bool         { return d.SpareHours() > 0 }
func (d *Day) Overbooked() bool            { return d.filled > d.capacity }
func (d *Day) Allocation(i int) Allocation { return d.allocations[i] }

// SpareHours returns the unused budget. It never goes below zero, even when
// due work over-books the day.
func (d *Day) SpareHours() float64 {
	if s := d.capacity - d.filled; s > 0 {
		return s
	}
	return 0
}

// Allocations returns a copy of the allocation records in insertion order.
func (d *Day) Allocations() []Allocation {
	out := make([]Allocation, len(d.allocations))
	copy(out, d.allocations)
	return out
}

// ParentTasks returns the distinct tasks allocated to the day in the order
// they first appear.
func (d *Day) ParentTasks() []*Task {
	seen := make(map[*Task]struct{}, len(d.allocations))
	var tasks []*Task
	for _, a := range d.allocations {
		if _, ok := seen[a.Task]; ok {
			continue
		}
		seen[a.Task] = struct{}{}
		tasks = append(tasks, a.Task)
	}
	return tasks
}

// AddAllocation places hours of task into the day within its spare budget.
// It returns false and leaves both the day and the task untouched when the
// hours are not positive, exceed the spare budget or exceed the task's
// remaining hours.
func (d *Day) AddAllocation(task *Task, hours float64) bool {
	if hours > d.SpareHours() {
		return false
	}
	return d.ForceAllocation(task, hours)
}

// ForceAllocation places hours of task into the day regardless of the budget.
// It is used for work due on this day.
func (d *Day) ForceAllocation(task *Task, hours float64) bool {
	if task == nil || hours <= 0 || hours > task.Remaining() {
		return false
	}
	begin := d.start.Add(clock.Hours(d.filled))
	task.consume(hours)
	d.filled += hours
	d.allocations = append(d.allocations, Allocation{
		Task:  task,
		Hours: hours,
		Start: begin,
		End:   begin.Add(clock.Hours(hours)),
	})
	return true
}
