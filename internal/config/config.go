// Package config loads reextractor settings from .reextractor/config.yml,
// REEXTRACTOR_* environment variables and built-in defaults.
package config

import (
	"runtime"
	"time"
)

// Config represents the complete reextractor configuration.
// It can be loaded from .reextractor/config.yml with environment variable overrides.
type Config struct {
	Detection DetectionConfig `yaml:"detection" mapstructure:"detection"`
	Paths     PathsConfig     `yaml:"paths" mapstructure:"paths"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DetectionConfig bounds batch classification.
type DetectionConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"` // per-commit budget, 0 disables
	Workers        int `yaml:"workers" mapstructure:"workers"`                 // commits classified concurrently
	CacheCapacity  int `yaml:"cache_capacity" mapstructure:"cache_capacity"`   // memoised commits per run
}

// Timeout returns the per-commit budget as a duration.
func (d DetectionConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// PathsConfig selects match documents inside a batch directory.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for match documents
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// StorageConfig locates the results database.
type StorageConfig struct {
	Database string `yaml:"database" mapstructure:"database"` // empty disables persistence
}

// LogConfig configures the console logger.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // zerolog level name
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			TimeoutSeconds: 300,
			Workers:        runtime.NumCPU(),
			CacheCapacity:  4096,
		},
		Paths: PathsConfig{
			Include: []string{
				"**/*.yaml",
				"**/*.yml",
				"**/*.json",
			},
			Ignore: []string{
				".git/**",
				".reextractor/**",
			},
		},
		Storage: StorageConfig{
			Database: ".reextractor/results.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
