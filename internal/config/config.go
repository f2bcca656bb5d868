// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the workspace configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults, CLI flags,
// or environment fallbacks.
type Config struct {
	// Remote API
	BaseURL string `json:"base_url,omitempty"` // Job-board API base URL
	Token   string `json:"token,omitempty"`    // Issued session token (JWT)
	UserID  int    `json:"user_id,omitempty"`  // Overrides the token's user_id claim

	// Behavior
	TimeoutSeconds   int  `json:"timeout_seconds,omitempty"`   // HTTP request timeout
	StaggerMillis    int  `json:"stagger_millis,omitempty"`    // Score stagger unit per bucket
	ScoreConcurrency int  `json:"score_concurrency,omitempty"` // 0 keeps the stagger heuristic
	Verbose          bool `json:"verbose,omitempty"`           // Print detailed debug information
}

// Environment fallbacks, applied after file and flag merging.
const (
	EnvBaseURL = "DATAHIRE_BASE_URL"
	EnvToken   = "DATAHIRE_TOKEN"
	EnvUserID  = "DATAHIRE_USER_ID"
)

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills still-empty connection fields from the environment. Values
// already set by file or flags win.
func (c *Config) FromEnv() {
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv(EnvBaseURL)
	}
	if c.Token == "" {
		c.Token = os.Getenv(EnvToken)
	}
	if c.UserID == 0 {
		if id, err := strconv.Atoi(os.Getenv(EnvUserID)); err == nil {
			c.UserID = id
		}
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.UserID < 0 {
		return fmt.Errorf("config error: 'user_id' must be non-negative")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.StaggerMillis < 0 {
		return fmt.Errorf("config error: 'stagger_millis' must be non-negative")
	}
	if c.ScoreConcurrency < 0 {
		return fmt.Errorf("config error: 'score_concurrency' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.Token == "" {
		result.Token = defaults.Token
	}

	// Int fields: use default if zero
	if result.UserID == 0 {
		result.UserID = defaults.UserID
	}
	if result.TimeoutSeconds == 0 {
		if defaults.TimeoutSeconds > 0 {
			result.TimeoutSeconds = defaults.TimeoutSeconds
		} else {
			result.TimeoutSeconds = 30
		}
	}
	if result.StaggerMillis == 0 {
		if defaults.StaggerMillis > 0 {
			result.StaggerMillis = defaults.StaggerMillis
		} else {
			result.StaggerMillis = 500 // One stagger bucket step
		}
	}
	if result.ScoreConcurrency == 0 {
		result.ScoreConcurrency = defaults.ScoreConcurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
