package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/reugn/memwarn/internal/logging"
	"github.com/reugn/memwarn/monitor"
	"gopkg.in/yaml.v3"
)

// Config holds the startup settings of the application. It is read once
// and never written back.
type Config struct {
	// ThresholdPercent is the initial alert threshold, clamped to [10, 100].
	ThresholdPercent float64 `yaml:"threshold"`
	// IntervalSeconds is the initial poll interval, clamped to [1, 60].
	IntervalSeconds int `yaml:"interval"`
	// AutoStart starts monitoring right away instead of waiting for a
	// start command.
	AutoStart bool `yaml:"autostart"`
	// Headless prints readings to stdout instead of running the terminal UI.
	Headless bool `yaml:"headless"`
	// Source selects the memory statistics source: host, cgroup or auto.
	Source string `yaml:"source"`

	Log logging.Config `yaml:"log"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ThresholdPercent: monitor.DefaultThresholdPercent,
		IntervalSeconds:  monitor.DefaultIntervalSeconds,
		Source:           "host",
		Log: logging.Config{
			Level: "info",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Normalize clamps out of range values instead of rejecting them.
func (c *Config) Normalize() {
	c.ThresholdPercent = monitor.ClampThreshold(c.ThresholdPercent)
	c.IntervalSeconds = monitor.ClampInterval(c.IntervalSeconds)
	if c.Source == "" {
		c.Source = "host"
	}
}

// State returns the initial monitor state described by the config.
func (c *Config) State() monitor.State {
	return monitor.State{
		ThresholdPercent: c.ThresholdPercent,
		IntervalSeconds:  c.IntervalSeconds,
		Armed:            true,
	}
}
