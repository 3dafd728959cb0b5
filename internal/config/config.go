// Package config loads svsim settings from YAML, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"svsim/internal/logging"
	"svsim/internal/quantum"
)

// Environment overrides, applied after the file is read.
const (
	EnvLogLevel    = "SVSIM_LOG_LEVEL"
	EnvInfluxToken = "INFLUXDB_TOKEN"
)

const DefaultOutputFile = "runtime_data.txt"

type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Strategy  string `yaml:"strategy"`
	Workers   int    `yaml:"workers"`
	Bench     Bench  `yaml:"bench"`
}

type Bench struct {
	MinQubits   int    `yaml:"min_qubits"`
	MaxQubits   int    `yaml:"max_qubits"`
	Repeats     int    `yaml:"repeats"`
	OutputFile  string `yaml:"output_file"`
	MetricsAddr string `yaml:"metrics_addr"`
	Influx      Influx `yaml:"influx"`
}

// Influx is optional; an empty URL disables the sink.
type Influx struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

func (i Influx) Enabled() bool {
	return i.URL != ""
}

func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: logging.FormatText,
		Strategy:  "bitindexed",
		Bench: Bench{
			MinQubits:  1,
			MaxQubits:  25,
			Repeats:    1,
			OutputFile: DefaultOutputFile,
			Influx: Influx{
				Org:    "svsim",
				Bucket: "benchmarks",
			},
		},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvInfluxToken); v != "" {
		c.Bench.Influx.Token = v
	}
}

// Validate reports every problem at once. Each one wraps
// quantum.ErrInvalidArgument.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", quantum.ErrInvalidArgument, fmt.Sprintf(format, args...)))
	}

	if _, err := quantum.ParseStrategy(c.Strategy, c.Workers); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		bad("%v", err)
	}

	b := c.Bench
	if b.MinQubits < 1 || b.MinQubits > quantum.MaxQubits {
		bad("bench.min_qubits %d outside [1, %d]", b.MinQubits, quantum.MaxQubits)
	}
	if b.MaxQubits < b.MinQubits || b.MaxQubits > quantum.MaxQubits {
		bad("bench.max_qubits %d outside [%d, %d]", b.MaxQubits, b.MinQubits, quantum.MaxQubits)
	}
	if b.Repeats < 1 {
		bad("bench.repeats must be positive, got %d", b.Repeats)
	}
	if b.Influx.Enabled() && (b.Influx.Org == "" || b.Influx.Bucket == "") {
		bad("bench.influx needs org and bucket when url is set")
	}
	return errors.Join(errs...)
}
