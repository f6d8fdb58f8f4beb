// Package config loads the daemon's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all daemon configuration.
type Config struct {
	// Adapter optionally pins a BlueZ adapter object path, e.g.
	// /org/bluez/hci0. Empty means auto-discover.
	Adapter  string      `yaml:"adapter"`
	TickMs   int         `yaml:"tick_ms"`
	LogLevel string      `yaml:"log_level"`
	Accel    AccelConfig `yaml:"accel"`
}

// AccelConfig holds accelerometer settings.
type AccelConfig struct {
	Device string `yaml:"device"`
	Addr   int    `yaml:"addr"`
	// Sim replaces the hardware with a synthetic stride source.
	Sim bool `yaml:"sim"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		TickMs:   10,
		LogLevel: "info",
		Accel: AccelConfig{
			Device: "/dev/i2c-1",
			Addr:   0x53,
		},
	}
}

// Load reads and parses a YAML config file. Missing fields are filled with
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.TickMs <= 0 {
		return fmt.Errorf("tick_ms must be positive, got %d", c.TickMs)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}
	if !c.Accel.Sim {
		if c.Accel.Device == "" {
			return fmt.Errorf("accel.device must be set unless accel.sim is enabled")
		}
		if c.Accel.Addr <= 0 || c.Accel.Addr > 0x7f {
			return fmt.Errorf("accel.addr must be a 7-bit i2c address, got %#x", c.Accel.Addr)
		}
	}
	return nil
}
