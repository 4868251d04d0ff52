package scheduler

import (
	"math"
	"time"

	"github.com/kilianp07/planner/core/clock"
	"github.com/kilianp07/planner/core/model"
)

// DynamicScheduler spreads each task over the days left until it is due, so
// that days carry a mix of tasks instead of one task at a time.
type DynamicScheduler struct {
	opts Options
}

// NewDynamicScheduler returns a dynamic strategy.
func NewDynamicScheduler(opts Options) *DynamicScheduler {
	return &DynamicScheduler{opts: opts}
}

func (s *DynamicScheduler) Name() string { return "dynamic" }

// AssignDay implements Scheduler.
func (s *DynamicScheduler) AssignDay(day *model.Day, errorCount int, completed, pending *model.TaskQueue, now time.Time) int {
	return fillDay(s.Name(), s.opts.logger(), s.maxHours, day, errorCount, completed, pending, now)
}

func (s *DynamicScheduler) maxHours(day *model.Day, task *model.Task, now time.Time) float64 {
	cfg := s.opts.Config
	if dueOn(task, day) {
		return dueHours(day, task, now, cfg)
	}
	hours := math.Min(share(day, task, cfg), windowHours(day, now, cfg))
	return clampMin(hours, task, cfg)
}

// share is the task's even split over the days from day through its due
// date, rounded up to the half hour and never below MinHours.
func share(day *model.Day, task *model.Task, cfg model.UserConfig) float64 {
	days := clock.DaysBetween(day.Date(), task.DueDate()) + 1
	s := math.Ceil(task.Remaining()/float64(days)*2) / 2
	if s < cfg.MinHours {
		s = cfg.MinHours
	}
	return math.Min(s, task.Remaining())
}
