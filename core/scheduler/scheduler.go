package scheduler

import (
	"math"
	"time"

	"github.com/kilianp07/planner/core/clock"
	"github.com/kilianp07/planner/core/logger"
	"github.com/kilianp07/planner/core/model"
)

// Scheduler fills one day with hours taken from the pending queue.
type Scheduler interface {
	// Name returns the registry name of the strategy.
	Name() string
	// AssignDay allocates pending work into day and returns errorCount plus
	// the number of failed allocations. Tasks finished or due on the day are
	// moved to completed; the others are returned to pending.
	AssignDay(day *model.Day, errorCount int, completed, pending *model.TaskQueue, now time.Time) int
}

// Options carries what every strategy needs.
type Options struct {
	Config model.UserConfig
	Logger logger.Logger
}

func (o Options) logger() logger.Logger {
	if o.Logger == nil {
		return logger.NopLogger{}
	}
	return o.Logger
}

// StartingHour returns the hour from which work can be placed on day. For
// today it is the later of the configured start and the current hour.
func StartingHour(day *model.Day, now time.Time, cfg model.UserConfig) int {
	if clock.SameDate(day.Date(), now) {
		if h := now.Hour(); h > cfg.StartHour() {
			return h
		}
	}
	return cfg.StartHour()
}

// dueOn reports whether task must be completed on day. Overdue tasks are
// treated as due so they cannot linger in the queue.
func dueOn(task *model.Task, day *model.Day) bool {
	return !task.DueDate().After(day.Date())
}

// dueHours returns the hours placed for a task due on day. Without FitDay the
// whole remainder is forced in. With FitDay the allocation stops at midnight,
// dropping a trailing half hour when the current time is past the half hour.
func dueHours(day *model.Day, task *model.Task, now time.Time, cfg model.UserConfig) float64 {
	if !cfg.FitDay {
		return task.Remaining()
	}
	start := StartingHour(day, now, cfg)
	remaining := 24 - (float64(start) + day.HoursFilled())
	hours := math.Min(remaining, task.Remaining())
	if remaining-hours < 1.0 && now.Minute() >= 30 {
		hours -= 0.5
	}
	return hours
}

// windowHours returns the hours available on day for work not due on it.
func windowHours(day *model.Day, now time.Time, cfg model.UserConfig) float64 {
	if !clock.SameDate(day.Date(), now) {
		return day.SpareHours()
	}
	start := StartingHour(day, now, cfg)
	remaining := float64(cfg.EndHour()) - (float64(start) + day.HoursFilled())
	if remaining <= 0 || day.SpareHours() <= 0 {
		return 0
	}
	return math.Min(remaining, day.SpareHours())
}

// clampMin defers a task rather than placing a chunk smaller than MinHours
// while more of it is still outstanding.
func clampMin(hours float64, task *model.Task, cfg model.UserConfig) float64 {
	if hours < cfg.MinHours && task.Remaining() > hours {
		return 0
	}
	return hours
}

// allocator returns the per-task hour computation of a strategy.
type allocator func(day *model.Day, task *model.Task, now time.Time) float64

// fillDay runs the allocation loop shared by the strategies.
func fillDay(name string, log logger.Logger, maxHours allocator, day *model.Day, errorCount int, completed, pending *model.TaskQueue, now time.Time) int {
	var incomplete []*model.Task
	errs := errorCount
	for pending.Len() > 0 && (day.HasSpareHours() || dueOn(pending.Peek(), day)) {
		task := pending.Pop()
		hours := maxHours(day, task, now)
		due := dueOn(task, day)

		var ok bool
		if due {
			ok = day.ForceAllocation(task, hours) && task.Finished()
		} else {
			ok = day.AddAllocation(task, hours)
		}
		if due || task.Finished() {
			completed.Push(task)
		} else {
			incomplete = append(incomplete, task)
		}
		log.Debugw("day action", map[string]any{
			"strategy":  name,
			"day_id":    day.ID(),
			"task_id":   task.ID,
			"hours":     hours,
			"remaining": task.Remaining(),
			"ok":        ok,
		})
		if !ok {
			errs++
			if clock.DaysBetween(day.Date(), task.DueDate()) > 0 {
				break
			}
		}
	}
	for _, t := range incomplete {
		pending.Push(t)
	}
	return errs
}
