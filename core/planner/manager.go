package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/planner/core/clock"
	"github.com/kilianp07/planner/core/eventlog"
	"github.com/kilianp07/planner/core/events"
	"github.com/kilianp07/planner/core/logger"
	"github.com/kilianp07/planner/core/metrics"
	"github.com/kilianp07/planner/core/model"
	"github.com/kilianp07/planner/core/scheduler"
	"github.com/kilianp07/planner/internal/eventbus"
)

// ErrTaskNotFound is returned when no task carries the requested id.
var ErrTaskNotFound = errors.New("task not found")

// TaskSpec describes a task to import.
type TaskSpec struct {
	Name  string
	Hours float64
	Due   time.Time
}

// BuildResult describes one schedule build.
type BuildResult struct {
	RunID    string
	Strategy string
	Days     []*model.Day
	Errors   int
	Pending  int
	Hours    float64
	Duration time.Duration
	At       time.Time
}

// Manager owns the task set and the schedule built from it. Its methods are
// safe for concurrent use. Task lookups and edits return TaskView copies.
// Schedule, Pending, Completed and Archived expose live state that the next
// build mutates; concurrent readers use Snapshot.
type Manager struct {
	mu sync.Mutex

	cfg      model.UserConfig
	clock    clock.Clock
	logger   logger.Logger
	metrics  metrics.MetricsSink
	bus      eventbus.EventBus
	store    eventlog.LogStore
	strategy scheduler.Scheduler

	nextID    int
	pending   *model.TaskQueue
	completed *model.TaskQueue
	archived  []*model.Task
	days      []*model.Day
	errors    int
	dayID     int
	lastRun   string
	builtAt   time.Time
}

// NewManager validates cfg and returns an empty Manager. The strategy named by
// cfg.Algorithm is resolved unless WithScheduler provides one.
func NewManager(cfg model.UserConfig, opts ...Option) (*Manager, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		cfg:       cfg,
		clock:     clock.System{},
		logger:    logger.NopLogger{},
		metrics:   metrics.NopSink{},
		store:     eventlog.NopStore{},
		pending:   model.NewTaskQueue(),
		completed: model.NewTaskQueue(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.strategy == nil {
		s, err := scheduler.New(cfg.Algorithm, scheduler.Options{Config: cfg, Logger: m.logger})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)
		}
		m.strategy = s
	}
	return m, nil
}

// Config returns the settings in use.
func (m *Manager) Config() model.UserConfig { return m.cfg }

// Strategy returns the name of the active scheduling strategy.
func (m *Manager) Strategy() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.strategy.Name()
}

// Now returns the current instant of the planner clock.
func (m *Manager) Now() time.Time { return m.clock.Now() }

// SetScheduler switches to the strategy registered under name. The current
// schedule is kept until the next build.
func (m *Manager) SetScheduler(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg := m.cfg
	cfg.Algorithm = name
	s, err := scheduler.New(name, scheduler.Options{Config: cfg, Logger: m.logger})
	if err != nil {
		return err
	}
	m.cfg = cfg
	m.strategy = s
	m.logger.Infof("scheduling strategy set to %s", name)
	return nil
}

// AddTask adds a task due days calendar days from today.
func (m *Manager) AddTask(name string, hours float64, days int) (TaskView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := model.NewTask(m.nextID, name, hours, m.clock.Now(), days)
	if err != nil {
		return TaskView{}, err
	}
	m.insert(t)
	return NewTaskView(t), nil
}

// AddTaskDue adds a task with an explicit due date.
func (m *Manager) AddTaskDue(name string, hours float64, due time.Time) (TaskView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := model.NewTaskDue(m.nextID, name, hours, due)
	if err != nil {
		return TaskView{}, err
	}
	m.insert(t)
	return NewTaskView(t), nil
}

// ImportTasks adds every spec. Tasks already past due go straight to the
// archive. Nothing is added when any spec is invalid.
func (m *Manager) ImportTasks(specs []TaskSpec) ([]TaskView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := make([]*model.Task, 0, len(specs))
	for i, s := range specs {
		t, err := model.NewTaskDue(m.nextID+i, s.Name, s.Hours, s.Due)
		if err != nil {
			return nil, fmt.Errorf("import: %w", err)
		}
		tasks = append(tasks, t)
	}
	today := clock.StartOfDay(m.clock.Now())
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, NewTaskView(t))
		if t.DueDate().Before(today) {
			m.nextID = t.ID + 1
			m.archive(t, "")
			continue
		}
		m.insert(t)
	}
	return views, nil
}

// RemoveTask deletes the task with the given id from the backlog or the
// archive. The current schedule is kept until the next build.
func (m *Manager) RemoveTask(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.detach(id)
	if !ok {
		return fmt.Errorf("remove %d: %w", id, ErrTaskNotFound)
	}
	m.emit(events.TaskRemoved, t, "")
	return nil
}

// EditTask replaces the task with the given id by a new one with the given
// hours, due days calendar days from today. The replacement gets a new id.
func (m *Manager) EditTask(id int, hours float64, days int) (TaskView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.lookup(id)
	if !ok {
		return TaskView{}, fmt.Errorf("edit %d: %w", id, ErrTaskNotFound)
	}
	t, err := model.NewTask(m.nextID, old.Name, hours, m.clock.Now(), days)
	if err != nil {
		return TaskView{}, err
	}
	m.detach(id)
	m.emit(events.TaskEdited, old, fmt.Sprintf("replaced by %d", t.ID))
	m.insert(t)
	return NewTaskView(t), nil
}

// Task returns a copy of the task with the given id, wherever it is held.
func (m *Manager) Task(id int) (TaskView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.lookup(id)
	if !ok {
		return TaskView{}, false
	}
	return NewTaskView(t), true
}

// ResetSchedule clears the schedule and returns every task of the working set
// to the pending queue with its full hours.
func (m *Manager) ResetSchedule() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

// BuildSchedule rebuilds the schedule from scratch.
func (m *Manager) BuildSchedule() BuildResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	began := time.Now()
	m.reset()
	now := m.clock.Now()
	runID := uuid.NewString()
	m.archivePastDue(now, runID)
	m.pruneArchive(now)

	today := clock.StartOfDay(now)
	errs := 0
	for i := 0; m.pending.Len() > 0 && len(m.days) < m.cfg.MaxDays; i++ {
		date := clock.AddDays(today, i)
		day := model.NewDay(m.dayID, m.cfg.Week[int(date.Weekday())], date)
		day.StartAt(clock.AtHour(date, float64(scheduler.StartingHour(day, now, m.cfg))))
		m.dayID++
		m.days = append(m.days, day)
		errs = m.strategy.AssignDay(day, errs, m.completed, m.pending, now)
	}
	m.errors = errs
	m.lastRun = runID
	m.builtAt = now

	res := BuildResult{
		RunID:    runID,
		Strategy: m.strategy.Name(),
		Days:     m.scheduleLocked(),
		Errors:   errs,
		Pending:  m.pending.Len(),
		Hours:    scheduledHours(m.days),
		Duration: time.Since(began),
		At:       now,
	}
	m.publishBuild(res)
	return res
}

// Schedule returns the days of the latest build.
func (m *Manager) Schedule() []*model.Day {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduleLocked()
}

// ErrorCount returns the failed allocations of the latest build.
func (m *Manager) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors
}

// Pending returns the tasks left unscheduled, in priority order. Before the
// first build it holds the whole backlog.
func (m *Manager) Pending() []*model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending.Tasks()
}

// Completed returns the tasks fully handled by the latest build, in priority
// order.
func (m *Manager) Completed() []*model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed.Tasks()
}

// Archived returns the archived tasks, oldest archive first.
func (m *Manager) Archived() []*model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Task, len(m.archived))
	copy(out, m.archived)
	return out
}

// IsArchived reports whether the task with the given id is archived.
func (m *Manager) IsArchived(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.archivedIndex(id) >= 0
}

func (m *Manager) scheduleLocked() []*model.Day {
	out := make([]*model.Day, len(m.days))
	copy(out, m.days)
	return out
}

func (m *Manager) reset() {
	m.days = nil
	m.errors = 0
	m.dayID = 0
	for _, t := range append(m.pending.Drain(), m.completed.Drain()...) {
		t.Reset()
		m.pending.Push(t)
	}
}

// archivePastDue moves the leading pending tasks whose due date lies before
// today into the archive.
func (m *Manager) archivePastDue(now time.Time, runID string) {
	for m.pending.Len() > 0 {
		head := m.pending.Peek()
		if !head.DueDate().Before(now) || clock.SameDate(head.DueDate(), now) {
			return
		}
		m.archive(m.pending.Pop(), runID)
	}
}

// pruneArchive forgets archived tasks due more than ArchiveDays ago.
func (m *Manager) pruneArchive(now time.Time) {
	kept := m.archived[:0]
	for _, t := range m.archived {
		if clock.DaysBetween(t.DueDate(), now) <= m.cfg.Retention() {
			kept = append(kept, t)
			continue
		}
		m.logger.Debugf("pruned archived task %d", t.ID)
	}
	for i := len(kept); i < len(m.archived); i++ {
		m.archived[i] = nil
	}
	m.archived = kept
}

func (m *Manager) insert(t *model.Task) {
	if t.ID >= m.nextID {
		m.nextID = t.ID + 1
	}
	m.pending.Push(t)
	m.emit(events.TaskAdded, t, "")
}

func (m *Manager) archive(t *model.Task, runID string) {
	m.archived = append(m.archived, t)
	m.emitRun(events.TaskArchived, t, runID, "")
}

func (m *Manager) lookup(id int) (*model.Task, bool) {
	for _, q := range []*model.TaskQueue{m.pending, m.completed} {
		for _, t := range q.Tasks() {
			if t.ID == id {
				return t, true
			}
		}
	}
	if i := m.archivedIndex(id); i >= 0 {
		return m.archived[i], true
	}
	return nil, false
}

func (m *Manager) detach(id int) (*model.Task, bool) {
	if t, ok := m.pending.Remove(id); ok {
		return t, true
	}
	if t, ok := m.completed.Remove(id); ok {
		return t, true
	}
	if i := m.archivedIndex(id); i >= 0 {
		t := m.archived[i]
		m.archived = append(m.archived[:i], m.archived[i+1:]...)
		return t, true
	}
	return nil, false
}

func (m *Manager) archivedIndex(id int) int {
	for i, t := range m.archived {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) emit(action string, t *model.Task, msg string) {
	m.emitRun(action, t, "", msg)
}

func (m *Manager) emitRun(action string, t *model.Task, runID, msg string) {
	now := m.clock.Now()
	m.record(eventlog.LogRecord{
		Timestamp: now,
		RunID:     runID,
		Kind:      eventlog.KindTask,
		Action:    action,
		TaskID:    t.ID,
		Hours:     t.TotalHours(),
		Message:   msg,
	})
	if m.bus != nil {
		m.bus.Publish(events.TaskEvent{
			Action:  action,
			TaskID:  t.ID,
			Name:    t.Name,
			Hours:   t.TotalHours(),
			DueDate: t.DueDate(),
			At:      now,
		})
	}
}

func (m *Manager) publishBuild(res BuildResult) {
	dayResults := make([]metrics.DayResult, len(res.Days))
	for i, d := range res.Days {
		dayResults[i] = metrics.DayResult{
			RunID:       res.RunID,
			DayID:       d.ID(),
			Date:        d.Date(),
			Capacity:    d.Capacity(),
			Filled:      d.HoursFilled(),
			Allocations: d.NumAllocations(),
		}
		m.record(eventlog.LogRecord{
			Timestamp: res.At,
			RunID:     res.RunID,
			Kind:      eventlog.KindDay,
			Action:    "filled",
			DayID:     d.ID(),
			Hours:     d.HoursFilled(),
			Message:   fmt.Sprintf("%d allocations, %.1fh spare", d.NumAllocations(), d.SpareHours()),
		})
	}
	m.record(eventlog.LogRecord{
		Timestamp: res.At,
		RunID:     res.RunID,
		Kind:      eventlog.KindBuild,
		Action:    "built",
		Hours:     res.Hours,
		Errors:    res.Errors,
		Message:   fmt.Sprintf("%s: %d days, %d pending", res.Strategy, len(res.Days), res.Pending),
	})

	if err := m.metrics.RecordBuild(metrics.BuildResult{
		RunID:          res.RunID,
		Strategy:       res.Strategy,
		Days:           len(res.Days),
		Errors:         res.Errors,
		Pending:        res.Pending,
		Completed:      m.completed.Len(),
		Archived:       len(m.archived),
		HoursScheduled: res.Hours,
		Duration:       res.Duration,
		Time:           res.At,
	}); err != nil {
		m.logger.Errorf("record build metrics: %v", err)
	}
	if rec, ok := m.metrics.(metrics.DayRecorder); ok {
		if err := rec.RecordDays(dayResults); err != nil {
			m.logger.Errorf("record day metrics: %v", err)
		}
	}
	if m.bus != nil {
		m.bus.Publish(events.BuildEvent{
			RunID:     res.RunID,
			Strategy:  res.Strategy,
			Days:      len(res.Days),
			Errors:    res.Errors,
			Pending:   res.Pending,
			Completed: m.completed.Len(),
			Archived:  len(m.archived),
			Hours:     res.Hours,
			Duration:  res.Duration,
			At:        res.At,
		})
	}
	m.logger.Infow("schedule built", map[string]any{
		"run_id":   res.RunID,
		"strategy": res.Strategy,
		"days":     len(res.Days),
		"errors":   res.Errors,
		"pending":  res.Pending,
		"hours":    res.Hours,
	})
}

func (m *Manager) record(rec eventlog.LogRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.store.Append(ctx, rec); err != nil {
		m.logger.Warnf("event log append: %v", err)
	}
}

func scheduledHours(days []*model.Day) float64 {
	var h float64
	for _, d := range days {
		h += d.HoursFilled()
	}
	return h
}
