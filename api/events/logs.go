// Package events exposes the planner event log over HTTP.
package events

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kilianp07/planner/core/eventlog"
)

// NewLogHandler returns an HTTP handler listing event log records. Supported
// query parameters are start and end (RFC 3339), kind and run_id. Requests
// must include an Authorization header with "Bearer <token>" when token is
// non-empty.
func NewLogHandler(store eventlog.LogStore, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		q, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []eventlog.LogRecord{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func parseQuery(r *http.Request) (eventlog.LogQuery, error) {
	values := r.URL.Query()
	q := eventlog.LogQuery{Kind: values.Get("kind"), RunID: values.Get("run_id")}
	if s := values.Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, err
		}
		q.Start = t
	}
	if s := values.Get("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, err
		}
		q.End = t
	}
	return q, nil
}
