// Package config provides configuration loading for the detach launcher.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Command-line flags (applied by the cli package)
//  2. Environment variables (DETACH_*)
//  3. Config file (--config, or ~/.detach/config.yml)
//  4. Built-in defaults
//
// Environment Variable Convention:
//   - Prefix: DETACH_
//   - Nested fields: Use underscores (DETACH_LOG_FILE, DETACH_DAEMON_NULL_DEVICE)
//
// Example usage:
//
//	cfg, err := config.NewLoader("").Load()
//	if err != nil {
//	    return err
//	}
//	logFile := cfg.Log.File
package config

import (
	"os"
	"path/filepath"
)

// Config represents the complete detach configuration.
type Config struct {
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Daemon DaemonConfig `yaml:"daemon" mapstructure:"daemon"`
}

// LogConfig configures where the detached workload's output and the
// launcher's own log go.
type LogConfig struct {
	File   string `yaml:"file" mapstructure:"file"`     // stdout/stderr destination after detaching
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// DaemonConfig configures the detachment sequence.
type DaemonConfig struct {
	NullDevice  string `yaml:"null_device" mapstructure:"null_device"`   // discard destination while detaching
	FailureCode int    `yaml:"failure_code" mapstructure:"failure_code"` // exit status of a stage failing after the caller left
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			File:   filepath.Join(defaultDir(), "detach.log"),
			Level:  "info",
			Format: "console",
		},
		Daemon: DaemonConfig{
			NullDevice:  os.DevNull,
			FailureCode: 1,
		},
	}
}

// defaultDir returns ~/.detach, or .detach if the home directory is unknown.
func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".detach"
	}
	return filepath.Join(home, ".detach")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if len(path) < 2 || path[:2] != "~/" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}
