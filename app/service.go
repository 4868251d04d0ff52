// Package app wires the planner with its storage, metrics, transport and
// HTTP surfaces into a long-running service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kilianp07/planner/api/events"
	"github.com/kilianp07/planner/api/schedule"
	"github.com/kilianp07/planner/config"
	"github.com/kilianp07/planner/core/clock"
	"github.com/kilianp07/planner/core/eventlog"
	coremetrics "github.com/kilianp07/planner/core/metrics"
	coremon "github.com/kilianp07/planner/core/monitoring"
	"github.com/kilianp07/planner/core/planner"
	"github.com/kilianp07/planner/infra/logger"
	"github.com/kilianp07/planner/infra/metrics"
	"github.com/kilianp07/planner/infra/monitoring"
	"github.com/kilianp07/planner/infra/mqtt"
	"github.com/kilianp07/planner/infra/taskfile"
	"github.com/kilianp07/planner/internal/eventbus"
)

// Service owns the planner and everything attached to it.
type Service struct {
	Manager *planner.Manager
	cfg     *config.Config
	clock   clock.Clock
	bus     *eventbus.Bus
	store   eventlog.LogStore
	sink    coremetrics.MetricsSink
	pub     *mqtt.Publisher
	log     logger.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock sets the clock used by the planner and the task file import.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	s := &Service{
		cfg:   cfg,
		clock: clock.System{},
		bus:   eventbus.New(),
		log:   logger.New("service"),
	}
	for _, opt := range opts {
		opt(s)
	}

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	store, err := eventlog.NewStore(cfg.EventLog)
	if err != nil {
		return nil, fmt.Errorf("event log: %w", err)
	}
	s.store = store

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics: %w", err)
	}
	s.sink = sink

	manager, err := planner.NewManager(cfg.Planner,
		planner.WithClock(s.clock),
		planner.WithLogger(logger.New("planner")),
		planner.WithMetrics(sink),
		planner.WithEventBus(s.bus),
		planner.WithLogStore(store),
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("planner: %w", err)
	}
	s.Manager = manager

	if cfg.Service.TasksFile != "" {
		if err := s.importTasks(cfg.Service.TasksFile); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		pub.OnTaskRequest(func(req mqtt.TaskRequest) {
			if err := coremon.Guard("mqtt_task_request", func() { s.handleTaskRequest(req) }); err != nil {
				s.log.Errorf("%v", err)
			}
		})
		s.pub = pub
	}
	return s, nil
}

func (s *Service) importTasks(path string) error {
	specs, err := taskfile.Load(path, s.clock.Now())
	if err != nil {
		return fmt.Errorf("tasks file: %w", err)
	}
	in := make([]planner.TaskSpec, 0, len(specs))
	for _, sp := range specs {
		in = append(in, planner.TaskSpec{Name: sp.Name, Hours: sp.Hours, Due: sp.Due})
	}
	tasks, err := s.Manager.ImportTasks(in)
	if err != nil {
		return fmt.Errorf("tasks file: %w", err)
	}
	s.log.Infof("imported %d tasks from %s", len(tasks), path)
	return nil
}

func (s *Service) handleTaskRequest(req mqtt.TaskRequest) {
	t, err := s.Manager.AddTask(req.Name, req.Hours, req.DueInDays)
	if err != nil {
		s.log.Warnf("rejected task request %q: %v", req.Name, err)
		return
	}
	s.log.Infof("task %d %q added over mqtt", t.ID, t.Name)
	s.Rebuild()
}

// Rebuild recomputes the schedule.
func (s *Service) Rebuild() {
	res := s.Manager.BuildSchedule()
	if res.Errors > 0 {
		s.log.Warnf("schedule %s built with %d errors", res.RunID, res.Errors)
	}
}

// Handler returns the HTTP API of the service.
func (s *Service) Handler() http.Handler {
	return schedule.NewRouter(s.Manager, schedule.Options{
		Rebuild:     s.Rebuild,
		AutoRebuild: true,
		Events:      events.NewLogHandler(s.store, s.cfg.Service.APIToken),
		Metrics:     metrics.Handler(nil),
	})
}

// Run builds the first schedule, starts the background jobs and serves the
// HTTP API until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.pub != nil {
		n := mqtt.NewNotifier(s.pub)
		n.Snapshot = func() any { return s.Manager.Snapshot() }
		n.Start(ctx, s.bus)
	}
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cfg.Service.RebuildEnabled() {
		c := cron.New()
		job := func() {
			if err := coremon.Guard("scheduled_rebuild", s.Rebuild); err != nil {
				s.log.Errorf("%v", err)
			}
		}
		if _, err := c.AddFunc(s.cfg.Service.RebuildCron, job); err != nil {
			return fmt.Errorf("rebuild cron: %w", err)
		}
		c.Start()
		defer c.Stop()
		s.log.Infof("rebuild scheduled with %q", s.cfg.Service.RebuildCron)
	}

	s.Rebuild()

	srv := &http.Server{Addr: s.cfg.Service.HTTPAddr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("serving API on %s", s.cfg.Service.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			coremon.CaptureException(err, map[string]string{"op": "http_server"})
			return fmt.Errorf("http server: %w", err)
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.pub != nil {
		s.pub.Disconnect()
	}
	s.bus.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(2 * time.Second)
	return s.store.Close()
}
