// Package config loads and validates flowtrack's YAML configuration.
// Malformed values fail here, at startup, and never reach the tracker.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"flowtrack/internal/track"
)

const fileName = "config.yaml"

// Config is the on-disk configuration. A default file is written on
// first run so users have something to edit.
type Config struct {
	// ThresholdMinutes is how long input must be absent before time
	// classifies as idle.
	ThresholdMinutes int `yaml:"threshold_minutes"`
	// StartTime and EndTime bound the daily tracking window, as local
	// "HH:MM" clock times.
	StartTime string `yaml:"start_time,omitempty"`
	EndTime   string `yaml:"end_time,omitempty"`
	// Timeout stops a session after a fixed duration, e.g. "8h" or
	// "90m".
	Timeout string `yaml:"timeout,omitempty"`
}

func Default() Config {
	return Config{ThresholdMinutes: 5}
}

// Dir returns (and creates) the flowtrack config directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "flowtrack")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// Load reads config.yaml from dir, materializing the defaults when the
// file does not exist yet.
func Load(dir string) (Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		if err := Save(dir, cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to dir/config.yaml.
func Save(dir string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, fileName), data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Session is the validated, typed form of the configuration for one
// tracking run.
type Session struct {
	Threshold time.Duration
	StartAt   *track.DayClock
	EndAt     *track.DayClock
	Timeout   time.Duration
}

// Resolve merges CLI overrides over the config values and validates the
// result. Zero or empty overrides leave the config value in place.
func (c Config) Resolve(thresholdMins int, startTime, endTime, timeout string) (Session, error) {
	if thresholdMins == 0 {
		thresholdMins = c.ThresholdMinutes
	}
	if thresholdMins <= 0 {
		return Session{}, fmt.Errorf("idle threshold must be positive, got %d minutes", thresholdMins)
	}
	if startTime == "" {
		startTime = c.StartTime
	}
	if endTime == "" {
		endTime = c.EndTime
	}
	if timeout == "" {
		timeout = c.Timeout
	}

	s := Session{Threshold: time.Duration(thresholdMins) * time.Minute}

	if startTime != "" {
		clk, err := track.ParseDayClock(startTime)
		if err != nil {
			return Session{}, fmt.Errorf("start time: %w", err)
		}
		s.StartAt = &clk
	}
	if endTime != "" {
		clk, err := track.ParseDayClock(endTime)
		if err != nil {
			return Session{}, fmt.Errorf("end time: %w", err)
		}
		s.EndAt = &clk
	}
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Session{}, fmt.Errorf("timeout: %w", err)
		}
		if d <= 0 {
			return Session{}, fmt.Errorf("timeout must be positive, got %s", timeout)
		}
		s.Timeout = d
	}
	return s, nil
}
