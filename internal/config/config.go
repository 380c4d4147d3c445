// Package config provides configuration types for the reviewhub client.
//
// Configuration is file-based (reviewhub.yaml) with environment variable
// overrides (REVIEWHUB_*). CLI flags take precedence over both.
package config

import (
	"os"
	"path/filepath"
)

// Config is the top-level configuration for the reviewhub client.
type Config struct {
	// API configures the gateway client.
	API APIConfig `yaml:"api" mapstructure:"api"`

	// State configures where the session snapshot is persisted.
	State StateConfig `yaml:"state" mapstructure:"state"`

	// Session configures the session cache.
	Session SessionConfig `yaml:"session" mapstructure:"session"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// APIConfig configures the backend gateway client.
type APIConfig struct {
	// BaseURL is the backend API base URL (e.g., "http://localhost:8000").
	// Defaults to "http://localhost:8000" if empty.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout is the per-request timeout (e.g., "15s", "1m").
	// Defaults to "15s" if empty.
	Timeout string `yaml:"timeout" mapstructure:"timeout" validate:"omitempty,duration"`

	// RateLimit is the maximum requests per second to the backend.
	// 0 disables client-side rate limiting.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit" validate:"omitempty,min=0"`

	// RateBurst is the burst size for the rate limiter.
	// Defaults to 5 when RateLimit is set.
	RateBurst int `yaml:"rate_burst" mapstructure:"rate_burst" validate:"omitempty,min=0"`
}

// StateConfig configures session snapshot persistence.
type StateConfig struct {
	// Path is the session snapshot file location.
	// Defaults to ~/.reviewhub/session.json if empty.
	Path string `yaml:"path" mapstructure:"path"`
}

// SessionConfig configures the session cache.
type SessionConfig struct {
	// TTL is how long a persisted identity snapshot stays fresh (e.g., "5m").
	// A fresh snapshot is rendered immediately and revalidated in the
	// background; a stale one forces a synchronous profile fetch.
	// Defaults to "5m" if empty.
	TTL string `yaml:"ttl" mapstructure:"ttl" validate:"omitempty,duration"`
}

// LogConfig configures structured logging output.
type LogConfig struct {
	// Level sets the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	// Defaults to "warn": a CLI should be quiet unless asked.
	Level string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`

	// Format selects the log output format: "text" or "json".
	// Defaults to "text".
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=text json"`
}

// SetDefaults applies sensible default values to the configuration.
func (c *Config) SetDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8000"
	}
	if c.API.Timeout == "" {
		c.API.Timeout = "15s"
	}
	if c.API.RateLimit > 0 && c.API.RateBurst == 0 {
		c.API.RateBurst = 5
	}

	if c.State.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.State.Path = filepath.Join(home, ".reviewhub", "session.json")
		}
	}

	if c.Session.TTL == "" {
		c.Session.TTL = "5m"
	}

	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
