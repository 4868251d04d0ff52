package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		sc, err := Load(f)
		require.NoError(t, err, f)
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nnow: 2025-06-02T06:00\nowner: me\n"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestRunRejectsBadStart(t *testing.T) {
	_, err := Run(&Scenario{Name: "x", Now: "yesterday"})
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	cfg := ConfigDef{MaxDays: 3}.ToModel()
	assert.Equal(t, 3, cfg.MaxDays)
	assert.Equal(t, "compact", cfg.Algorithm)
	assert.Len(t, cfg.Week, 7)
}
