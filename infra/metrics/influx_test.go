package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/planner/core/metrics"
)

type capture struct {
	mu     sync.Mutex
	bodies []string
}

func (c *capture) handler(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	c.mu.Lock()
	c.bodies = append(c.bodies, strings.TrimSpace(string(data)))
	c.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func TestInfluxSinkRecordBuild(t *testing.T) {
	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(c.handler))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	defer sink.Close()
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, sink.RecordBuild(coremetrics.BuildResult{
		RunID: "r1", Strategy: "compact", Days: 3, Errors: 1, HoursScheduled: 20, Duration: 2 * time.Millisecond, Time: now,
	}))

	p := write.NewPointWithMeasurement("schedule_build").
		AddTag("run_id", "r1").
		AddTag("strategy", "compact").
		AddField("days", 3).
		AddField("errors", 1).
		AddField("pending", 0).
		AddField("completed", 0).
		AddField("archived", 0).
		AddField("hours", 20.0).
		AddField("duration_ms", 2.0).
		SetTime(now)
	require.Len(t, c.bodies, 1)
	assert.Equal(t, strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond)), c.bodies[0])
}

func TestInfluxSinkRecordDays(t *testing.T) {
	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(c.handler))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Org: "org", Bucket: "bucket"})
	defer sink.Close()
	require.NoError(t, sink.RecordDays([]coremetrics.DayResult{
		{RunID: "r1", DayID: 0, Capacity: 8, Filled: 8},
		{RunID: "r1", DayID: 1, Capacity: 8, Filled: 6},
	}))
	require.Len(t, c.bodies, 2)
	assert.Contains(t, c.bodies[1], "schedule_day,day=1,run_id=r1")
	assert.Contains(t, c.bodies[1], "utilization=0.75")
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	assert.True(t, called)
	assert.IsType(t, coremetrics.NopSink{}, sink)
}
