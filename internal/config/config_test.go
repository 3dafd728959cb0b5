package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svsim/internal/quantum"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultOutputFile, cfg.Bench.OutputFile)
	assert.False(t, cfg.Bench.Influx.Enabled())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
strategy: parallel
workers: 4
bench:
  max_qubits: 20
  repeats: 5
  influx:
    url: http://localhost:8086
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "parallel", cfg.Strategy)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 1, cfg.Bench.MinQubits, "unset keys keep their defaults")
	assert.Equal(t, 20, cfg.Bench.MaxQubits)
	assert.Equal(t, 5, cfg.Bench.Repeats)
	assert.Equal(t, "benchmarks", cfg.Bench.Influx.Bucket)
	assert.True(t, cfg.Bench.Influx.Enabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvInfluxToken, "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "secret", cfg.Bench.Influx.Token)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bench: [1, 2"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown strategy", func(c *Config) { c.Strategy = "quantum-annealer" }},
		{"negative workers", func(c *Config) { c.Strategy = "parallel"; c.Workers = -2 }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
		{"zero min qubits", func(c *Config) { c.Bench.MinQubits = 0 }},
		{"max below min", func(c *Config) { c.Bench.MinQubits = 5; c.Bench.MaxQubits = 4 }},
		{"max above cap", func(c *Config) { c.Bench.MaxQubits = quantum.MaxQubits + 1 }},
		{"zero repeats", func(c *Config) { c.Bench.Repeats = 0 }},
		{"influx without bucket", func(c *Config) {
			c.Bench.Influx.URL = "http://localhost:8086"
			c.Bench.Influx.Bucket = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), quantum.ErrInvalidArgument)
		})
	}
}
