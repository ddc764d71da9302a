package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/ssbond/pkg/config"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	assert.Equal(t, 3.0, c.Scan.Cutoff)
	assert.Equal(t, 3.2, c.Export.Cutoff)
	assert.Equal(t, 3.0, c.Match.Tolerance)
	assert.Equal(t, 3, c.Fingerprint.Window)
	assert.Equal(t, 0, c.Survey.Workers)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "console", c.Log.Format)
	assert.Equal(t, config.OutText, c.Output)

	opts := c.Options()
	assert.Equal(t, 3, opts.Window)
	assert.Equal(t, 3.0, opts.Cutoff)
}

const fileYAML = `
scan:
  cutoff: 2.8
match:
  tolerance: 2.5
log:
  format: json
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ssbond.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fileYAML), 0o644))
	c, err := config.Load(config.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 2.8, c.Scan.Cutoff)
	assert.Equal(t, 2.5, c.Match.Tolerance)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, 3.2, c.Export.Cutoff, "unset keys keep defaults")
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("SSBOND_SCAN_CUTOFF", "3.5")
	t.Setenv("SSBOND_OUTPUT", "json")
	c, err := config.Load(config.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 3.5, c.Scan.Cutoff)
	assert.Equal(t, config.OutJSON, c.Output)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	for _, tt := range []struct {
		name  string
		spoil func(c *config.Config)
	}{
		{"cutoff", func(c *config.Config) { c.Scan.Cutoff = 0 }},
		{"export", func(c *config.Config) { c.Export.Cutoff = -1 }},
		{"tolerance", func(c *config.Config) { c.Match.Tolerance = 0 }},
		{"window", func(c *config.Config) { c.Fingerprint.Window = -2 }},
		{"workers", func(c *config.Config) { c.Survey.Workers = -1 }},
		{"level", func(c *config.Config) { c.Log.Level = "loud" }},
		{"format", func(c *config.Config) { c.Log.Format = "xml" }},
		{"output", func(c *config.Config) { c.Output = "csv" }},
	} {
		c := config.Default()
		require.NoError(t, c.Validate())
		tt.spoil(c)
		assert.Error(t, c.Validate(), tt.name)
	}
}
