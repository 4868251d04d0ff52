// Package schedule serves the planner state and task management over HTTP.
package schedule

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kilianp07/planner/core/planner"
	"github.com/kilianp07/planner/pkg/export"
)

// Planner is the part of planner.Manager used by the router.
type Planner interface {
	AddTask(name string, hours float64, days int) (planner.TaskView, error)
	AddTaskDue(name string, hours float64, due time.Time) (planner.TaskView, error)
	EditTask(id int, hours float64, days int) (planner.TaskView, error)
	RemoveTask(id int) error
	Task(id int) (planner.TaskView, bool)
	IsArchived(id int) bool
	SetScheduler(name string) error
	Snapshot() planner.Snapshot
	Summary() planner.Summary
}

// Options add optional routes.
type Options struct {
	// Rebuild is called by POST /rebuild and after task changes when
	// AutoRebuild is set.
	Rebuild     func()
	AutoRebuild bool
	// Events serves GET /events.
	Events http.Handler
	// Metrics serves GET /metrics.
	Metrics http.Handler
}

type server struct {
	p    Planner
	opts Options
}

// NewRouter returns the HTTP API.
func NewRouter(p Planner, opts Options) http.Handler {
	s := &server{p: p, opts: opts}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/schedule", s.schedule)
	r.Get("/summary", s.summary)
	r.Get("/export", s.export)
	r.Post("/rebuild", s.rebuild)
	r.Put("/strategy", s.setStrategy)
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.listTasks)
		r.Post("/", s.addTask)
		r.Get("/{id}", s.getTask)
		r.Put("/{id}", s.editTask)
		r.Delete("/{id}", s.removeTask)
	})
	if opts.Events != nil {
		r.Method(http.MethodGet, "/events", opts.Events)
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	return r
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) schedule(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.p.Snapshot())
}

func (s *server) summary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.p.Summary())
}

func (s *server) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, format, s.p.Snapshot()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if format == export.FormatCSV {
		w.Header().Set("Content-Type", "text/csv")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	_, _ = w.Write(buf.Bytes())
}

func (s *server) rebuild(w http.ResponseWriter, _ *http.Request) {
	if s.opts.Rebuild == nil {
		http.Error(w, "rebuild not available", http.StatusNotImplemented)
		return
	}
	s.opts.Rebuild()
	writeJSON(w, http.StatusOK, s.p.Snapshot())
}

func (s *server) changed() {
	if s.opts.AutoRebuild && s.opts.Rebuild != nil {
		s.opts.Rebuild()
	}
}

type strategyReq struct {
	Name string `json:"name"`
}

func (s *server) setStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.p.SetScheduler(req.Name); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.changed()
	writeJSON(w, http.StatusOK, map[string]string{"strategy": req.Name})
}

type taskList struct {
	Pending   []planner.TaskView `json:"pending"`
	Completed []planner.TaskView `json:"completed"`
	Archived  []planner.TaskView `json:"archived"`
}

func (s *server) listTasks(w http.ResponseWriter, _ *http.Request) {
	snap := s.p.Snapshot()
	writeJSON(w, http.StatusOK, taskList{Pending: snap.Pending, Completed: snap.Completed, Archived: snap.Archived})
}

type taskReq struct {
	Name      string  `json:"name"`
	Hours     float64 `json:"hours"`
	DueInDays *int    `json:"due_in_days"`
	Due       string  `json:"due"`
}

type taskResp struct {
	planner.TaskView
	Archived bool `json:"archived"`
}

func (s *server) addTask(w http.ResponseWriter, r *http.Request) {
	var req taskReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var (
		t   planner.TaskView
		err error
	)
	switch {
	case req.Due != "":
		due, perr := time.ParseInLocation(planner.DateLayout, req.Due, time.Local)
		if perr != nil {
			http.Error(w, perr.Error(), http.StatusBadRequest)
			return
		}
		t, err = s.p.AddTaskDue(req.Name, req.Hours, due)
	case req.DueInDays != nil:
		t, err = s.p.AddTask(req.Name, req.Hours, *req.DueInDays)
	default:
		http.Error(w, "due or due_in_days is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.changed()
	writeJSON(w, http.StatusCreated, s.view(t))
}

func (s *server) getTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	t, found := s.p.Task(id)
	if !found {
		http.Error(w, planner.ErrTaskNotFound.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.view(t))
}

func (s *server) editTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var req taskReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.DueInDays == nil {
		http.Error(w, "due_in_days is required", http.StatusBadRequest)
		return
	}
	t, err := s.p.EditTask(id, req.Hours, *req.DueInDays)
	if err != nil {
		writeError(w, err)
		return
	}
	s.changed()
	writeJSON(w, http.StatusOK, s.view(t))
}

func (s *server) removeTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if err := s.p.RemoveTask(id); err != nil {
		writeError(w, err)
		return
	}
	s.changed()
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) view(t planner.TaskView) taskResp {
	return taskResp{TaskView: t, Archived: s.p.IsArchived(t.ID)}
}

func taskID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, planner.ErrTaskNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
