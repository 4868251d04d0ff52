package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/planner/core/model"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `planner:
  week: [0, 8, 8, 8, 8, 6, 0]
  range: [9, 18]
  min_hours: 1.5
  max_days: 21
  fit_day: true
  algorithm: dynamic
event_log:
  backend: sqlite
metrics:
  sinks:
    - type: nop
  prometheus_addr: ":9100"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  topic_prefix: "home/planner"
  qos: 1
service:
  http_addr: ":9000"
  rebuild_cron: "@hourly"
  tasks_file: tasks.yaml
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 8, 8, 8, 8, 6, 0}, cfg.Planner.Week)
	assert.Equal(t, []int{9, 18}, cfg.Planner.Range)
	assert.Equal(t, 1.5, cfg.Planner.MinHours)
	assert.Equal(t, 21, cfg.Planner.MaxDays)
	assert.True(t, cfg.Planner.FitDay)
	assert.Equal(t, "dynamic", cfg.Planner.Algorithm)
	assert.Equal(t, 14, cfg.Planner.Retention())
	assert.Equal(t, "sqlite", cfg.EventLog.Backend)
	assert.Equal(t, "planner_events.db", cfg.EventLog.Path)
	require.Len(t, cfg.Metrics.Sinks, 1)
	assert.Equal(t, "nop", cfg.Metrics.Sinks[0].Type)
	assert.Equal(t, ":9100", cfg.Metrics.PrometheusAddr)
	assert.Equal(t, "home/planner", cfg.MQTT.TopicPrefix)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, ":9000", cfg.Service.HTTPAddr)
	assert.Equal(t, "@hourly", cfg.Service.RebuildCron)
	assert.Equal(t, "tasks.yaml", cfg.Service.TasksFile)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"planner":{"max_days":7},"service":{"rebuild_cron":"off"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Planner.MaxDays)
	assert.False(t, cfg.Service.RebuildEnabled())
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultUserConfig(), cfg.Planner)
	assert.Equal(t, "none", cfg.EventLog.Backend)
	assert.Equal(t, ":8080", cfg.Service.HTTPAddr)
	assert.False(t, cfg.MQTT.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "planner:\n  max_days: 21\n")
	t.Setenv("PLANNER_PLANNER__MAX_DAYS", "30")
	t.Setenv("PLANNER_PLANNER__ALGORITHM", "dynamic")
	t.Setenv("PLANNER_SERVICE__HTTP_ADDR", ":7070")
	t.Setenv("PLANNER_SERVICE__API_TOKEN", "s3cret")
	t.Setenv("PLANNER_SENTRY__DSN", "https://key@sentry.example.com/1")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Planner.MaxDays)
	assert.Equal(t, "dynamic", cfg.Planner.Algorithm)
	assert.Equal(t, ":7070", cfg.Service.HTTPAddr)
	assert.Equal(t, "s3cret", cfg.Service.APIToken)
	assert.Equal(t, "https://key@sentry.example.com/1", cfg.Sentry.DSN)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", ""))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "planner:\n  week: [8, 8]\n"))
	assert.ErrorIs(t, err, model.ErrInvalidConfig)

	_, err = Load(writeFile(t, "cron.yaml", "service:\n  rebuild_cron: \"every day\"\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "mqtt.yaml", "mqtt:\n  enabled: true\n"))
	assert.Error(t, err)
}

func TestLoadKeepsExplicitZeroArchiveDays(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", "planner:\n  archive_days: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Planner.ArchiveDays)
	assert.Equal(t, 0, cfg.Planner.Retention())
}
