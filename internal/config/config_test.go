package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level: debug
sample:
  width: 64
  bounds: {min_x: -1, min_y: -1, max_x: 1, max_y: 1}
script:
  timeout: 250ms
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 64, cfg.Sample.Width)
	assert.Equal(t, 256, cfg.Sample.Height, "unset fields keep defaults")
	assert.Equal(t, -1.0, cfg.Sample.Bounds.MinX)
	assert.Equal(t, 250*time.Millisecond, cfg.Script.Timeout)
	assert.Equal(t, 64, cfg.Mesh.Cells)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"level":      "log_level: loud",
		"width":      "sample: {width: 0}",
		"height":     "sample: {height: 5000}",
		"rect":       "sample: {bounds: {min_x: 2, max_x: 1, max_y: 1}}",
		"cells":      "mesh: {cells: 4}",
		"box":        "mesh: {bounds: {min: [0, 0, 0], max: [1, 0, 1]}}",
		"timeout":    "script: {timeout: 0s}",
		"bad yaml":   "sample: [",
		"wrong type": "sample: {width: wide}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "mapgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mesh: {iso: 0.25}\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Mesh.Iso)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
