package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/planner/core/clock"
	"github.com/kilianp07/planner/core/model"
)

// today is a Monday; tests pin "now" relative to it.
var today = time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)

type harness struct {
	pending   *model.TaskQueue
	completed *model.TaskQueue
	nextID    int
}

func newHarness() *harness {
	return &harness{pending: model.NewTaskQueue(), completed: model.NewTaskQueue()}
}

func (h *harness) add(t *testing.T, name string, hours float64, days int) *model.Task {
	t.Helper()
	task, err := model.NewTask(h.nextID, name, hours, today, days)
	require.NoError(t, err)
	h.nextID++
	h.pending.Push(task)
	return task
}

func day(id int, capacity float64) *model.Day {
	return model.NewDay(id, capacity, clock.AddDays(today, id))
}

func cfg(mutate ...func(*model.UserConfig)) model.UserConfig {
	c := model.DefaultUserConfig()
	for _, m := range mutate {
		m(&c)
	}
	return c
}

func names(d *model.Day) []string {
	var out []string
	for _, a := range d.Allocations() {
		out = append(out, a.Task.Name)
	}
	return out
}

func strategies(c model.UserConfig) []Scheduler {
	return []Scheduler{
		NewCompactScheduler(Options{Config: c}),
		NewDynamicScheduler(Options{Config: c}),
	}
}

func TestAssignDayDueWorkIsForced(t *testing.T) {
	now := today.Add(6 * time.Hour)
	for _, s := range strategies(cfg()) {
		t.Run(s.Name(), func(t *testing.T) {
			h := newHarness()
			h.add(t, "A", 8, 0)
			h.add(t, "B", 6, 2)
			h.add(t, "C", 4, 1)
			h.add(t, "D", 6, 1)
			d0, d1, d2 := day(0, 8), day(1, 8), day(2, 8)

			errs := s.AssignDay(d0, 0, h.completed, h.pending, now)
			assert.Equal(t, []string{"A"}, names(d0))
			assert.Equal(t, 8.0, d0.HoursFilled())
			assert.Equal(t, 0.0, d0.SpareHours())

			errs = s.AssignDay(d1, errs, h.completed, h.pending, now)
			assert.Equal(t, []string{"C", "D"}, names(d1))
			assert.Equal(t, 10.0, d1.HoursFilled())
			assert.Equal(t, 0.0, d1.SpareHours())

			errs = s.AssignDay(d2, errs, h.completed, h.pending, now)
			assert.Equal(t, []string{"B"}, names(d2))
			assert.Equal(t, 6.0, d2.HoursFilled())
			assert.Equal(t, 2.0, d2.SpareHours())

			assert.Equal(t, 0, errs)
			assert.Equal(t, 0, h.pending.Len())
			require.Equal(t, 4, h.completed.Len())
			for _, task := range h.completed.Tasks() {
				assert.True(t, task.Finished(), task.Name)
			}
		})
	}
}

func TestCompactLeftoverCarriesOver(t *testing.T) {
	now := today.Add(6 * time.Hour)
	s := NewCompactScheduler(Options{Config: cfg()})
	h := newHarness()
	h.add(t, "A", 5, 0)
	b := h.add(t, "B", 5, 1)
	h.add(t, "C", 3, 1)
	d0, d1 := day(0, 8), day(1, 8)

	errs := s.AssignDay(d0, 0, h.completed, h.pending, now)
	assert.Equal(t, []string{"A", "B"}, names(d0))
	assert.Equal(t, 0.0, d0.SpareHours())
	assert.Equal(t, 2.0, b.Remaining())
	assert.True(t, h.pending.Contains(b.ID), "unfinished task returns to pending")

	errs = s.AssignDay(d1, errs, h.completed, h.pending, now)
	assert.Equal(t, []string{"B", "C"}, names(d1))
	assert.Equal(t, 5.0, d1.HoursFilled())
	assert.Equal(t, 3.0, d1.SpareHours())
	assert.Equal(t, 0, errs)
}

func TestDynamicSpreadsWork(t *testing.T) {
	now := today.Add(6 * time.Hour)
	s := NewDynamicScheduler(Options{Config: cfg()})
	h := newHarness()
	h.add(t, "A", 5, 0)
	b := h.add(t, "B", 5, 1)
	c := h.add(t, "C", 3, 1)
	d0, d1 := day(0, 8), day(1, 8)

	errs := s.AssignDay(d0, 0, h.completed, h.pending, now)
	assert.Equal(t, []string{"A", "B", "C"}, names(d0))
	assert.Equal(t, 2.5, b.Remaining())
	assert.Equal(t, 2.5, c.Remaining())
	assert.Equal(t, 8.0, d0.HoursFilled())

	errs = s.AssignDay(d1, errs, h.completed, h.pending, now)
	assert.Equal(t, []string{"B", "C"}, names(d1))
	assert.Equal(t, 5.0, d1.HoursFilled())
	assert.Equal(t, 0, errs)
}

func TestDynamicEvenSplitOverFutureDays(t *testing.T) {
	now := today.Add(-12 * time.Hour)
	s := NewDynamicScheduler(Options{Config: cfg()})
	h := newHarness()
	task := h.add(t, "spread", 6, 2)
	for i := 0; i < 3; i++ {
		d := day(i, 8)
		s.AssignDay(d, 0, h.completed, h.pending, now)
		assert.Equal(t, 2.0, d.HoursFilled(), "day %d", i)
	}
	assert.True(t, task.Finished())
	assert.Equal(t, 1, h.completed.Len())
}

func TestAssignDayOverflowOfDueTasks(t *testing.T) {
	now := today.Add(6 * time.Hour)
	for _, s := range strategies(cfg()) {
		t.Run(s.Name(), func(t *testing.T) {
			h := newHarness()
			h.add(t, "x", 4, 0)
			h.add(t, "y", 5, 0)
			h.add(t, "z", 5, 0)
			d0 := day(0, 8)
			errs := s.AssignDay(d0, 0, h.completed, h.pending, now)
			assert.Equal(t, 3, d0.NumAllocations())
			assert.Equal(t, 14.0, d0.HoursFilled())
			assert.Equal(t, 0.0, d0.SpareHours())
			assert.Equal(t, 0, errs)
		})
	}
}

func TestCompactMinHoursDefersAndCountsError(t *testing.T) {
	now := today.Add(-12 * time.Hour)
	s := NewCompactScheduler(Options{Config: cfg(func(c *model.UserConfig) { c.MinHours = 2 })})
	h := newHarness()
	h.add(t, "X", 7, 5)
	y := h.add(t, "Y", 14, 6)

	d0 := day(0, 8)
	errs := s.AssignDay(d0, 0, h.completed, h.pending, now)
	assert.Equal(t, 1, errs)
	assert.Equal(t, []string{"X"}, names(d0))
	assert.Equal(t, 14.0, y.Remaining())

	d1 := day(1, 8)
	errs = s.AssignDay(d1, errs, h.completed, h.pending, now)
	assert.Equal(t, 6.0, y.Remaining())
	d2 := day(2, 8)
	errs = s.AssignDay(d2, errs, h.completed, h.pending, now)
	assert.True(t, y.Finished())
	assert.Equal(t, 1, errs, "error count never decreases and only grows on failures")
}

func TestErrorCountAccumulates(t *testing.T) {
	now := today.Add(-12 * time.Hour)
	s := NewCompactScheduler(Options{Config: cfg(func(c *model.UserConfig) { c.MinHours = 3 })})
	h := newHarness()
	h.add(t, "fill", 6, 4)
	h.add(t, "late", 10, 4)
	errs := s.AssignDay(day(0, 8), 5, h.completed, h.pending, now)
	assert.Equal(t, 6, errs)
}

func TestTodayWindowLimitsAllocation(t *testing.T) {
	h := newHarness()
	task := h.add(t, "evening", 4, 3)
	s := NewCompactScheduler(Options{Config: cfg()})
	d0 := day(0, 8)
	errs := s.AssignDay(d0, 0, h.completed, h.pending, today.Add(19*time.Hour))
	assert.Equal(t, 0, errs)
	assert.Equal(t, 1.0, d0.HoursFilled(), "only one working hour left today")
	assert.Equal(t, 3.0, task.Remaining())

	h2 := newHarness()
	h2.add(t, "too-late", 4, 3)
	late := day(0, 8)
	errs = s.AssignDay(late, 0, h2.completed, h2.pending, today.Add(21*time.Hour))
	assert.Equal(t, 1, errs)
	assert.Equal(t, 0, late.NumAllocations())
	assert.Equal(t, 1, h2.pending.Len())
}

func TestFitDayStopsAtMidnight(t *testing.T) {
	fit := cfg(func(c *model.UserConfig) { c.FitDay = true })
	s := NewCompactScheduler(Options{Config: fit})

	h := newHarness()
	task := h.add(t, "due", 5, 0)
	d0 := day(0, 8)
	errs := s.AssignDay(d0, 0, h.completed, h.pending, today.Add(22*time.Hour))
	assert.Equal(t, 2.0, d0.HoursFilled())
	assert.Equal(t, 3.0, task.Remaining())
	assert.Equal(t, 1, errs, "deadline missed")
	assert.True(t, h.completed.Contains(task.ID))

	h2 := newHarness()
	task2 := h2.add(t, "due", 5, 0)
	d1 := day(0, 8)
	s.AssignDay(d1, 0, h2.completed, h2.pending, today.Add(22*time.Hour+45*time.Minute))
	assert.Equal(t, 1.5, d1.HoursFilled(), "half hour dropped before midnight")
	assert.Equal(t, 3.5, task2.Remaining())
}

func TestFitDayFutureDayUsesStartHour(t *testing.T) {
	fit := cfg(func(c *model.UserConfig) { c.FitDay = true })
	s := NewCompactScheduler(Options{Config: fit})
	h := newHarness()
	task := h.add(t, "due", 10, 1)
	d1 := day(1, 8)
	errs := s.AssignDay(d1, 0, h.completed, h.pending, today.Add(9*time.Hour))
	assert.Equal(t, 0, errs)
	assert.True(t, task.Finished(), "16h left between start hour and midnight")
	assert.Equal(t, 10.0, d1.HoursFilled())
}

func TestStartingHour(t *testing.T) {
	c := cfg()
	d0 := day(0, 8)
	assert.Equal(t, 8, StartingHour(d0, today.Add(6*time.Hour), c))
	assert.Equal(t, 15, StartingHour(d0, today.Add(15*time.Hour+10*time.Minute), c))
	assert.Equal(t, 8, StartingHour(day(1, 8), today.Add(15*time.Hour), c))
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"compact", "dynamic"} {
		s, err := New(name, Options{Config: cfg()})
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
		assert.True(t, Known(name))
	}
	_, err := New("random", Options{})
	assert.Error(t, err)
	assert.Error(t, Register("compact", func(Options) (Scheduler, error) { return nil, nil }))
	assert.Equal(t, []string{"compact", "dynamic"}, Names())
}
