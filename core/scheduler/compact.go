package scheduler

import (
	"math"
	"time"

	"github.com/kilianp07/planner/core/model"
)

// CompactScheduler packs each task into the earliest days that can hold it.
type CompactScheduler struct {
	opts Options
}

// NewCompactScheduler returns a compact strategy.
func NewCompactScheduler(opts Options) *CompactScheduler {
	return &CompactScheduler{opts: opts}
}

func (s *CompactScheduler) Name() string { return "compact" }

// AssignDay implements Scheduler.
func (s *CompactScheduler) AssignDay(day *model.Day, errorCount int, completed, pending *model.TaskQueue, now time.Time) int {
	return fillDay(s.Name(), s.opts.logger(), s.maxHours, day, errorCount, completed, pending, now)
}

func (s *CompactScheduler) maxHours(day *model.Day, task *model.Task, now time.Time) float64 {
	cfg := s.opts.Config
	if dueOn(task, day) {
		return dueHours(day, task, now, cfg)
	}
	hours := math.Min(windowHours(day, now, cfg), task.Remaining())
	return clampMin(hours, task, cfg)
}
