package extraction

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds candidate generation settings.
type Config struct {
	SimilarityThreshold float64      `toml:"similarity_threshold"`
	Remote              RemoteConfig `toml:"remote"`
}

// RemoteConfig holds settings for the remote suggestion service.
// An empty base URL disables the remote strategy entirely.
type RemoteConfig struct {
	BaseURL        string `toml:"base_url"`
	HealthTimeout  string `toml:"health_timeout"`
	RequestTimeout string `toml:"request_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	SimilarityThreshold  string
	RemoteBaseURL        string
	RemoteHealthTimeout  string
	RemoteRequestTimeout string
}

// HealthTimeoutDuration returns HealthTimeout as a time.Duration.
func (c *RemoteConfig) HealthTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.HealthTimeout)
	return d
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (c *RemoteConfig) RequestTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.SimilarityThreshold != 0 {
		c.SimilarityThreshold = overlay.SimilarityThreshold
	}
	if overlay.Remote.BaseURL != "" {
		c.Remote.BaseURL = overlay.Remote.BaseURL
	}
	if overlay.Remote.HealthTimeout != "" {
		c.Remote.HealthTimeout = overlay.Remote.HealthTimeout
	}
	if overlay.Remote.RequestTimeout != "" {
		c.Remote.RequestTimeout = overlay.Remote.RequestTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = 0.80
	}
	if c.Remote.HealthTimeout == "" {
		c.Remote.HealthTimeout = "2s"
	}
	if c.Remote.RequestTimeout == "" {
		c.Remote.RequestTimeout = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.SimilarityThreshold != "" {
		if v := os.Getenv(env.SimilarityThreshold); v != "" {
			if threshold, err := strconv.ParseFloat(v, 64); err == nil {
				c.SimilarityThreshold = threshold
			}
		}
	}
	if env.RemoteBaseURL != "" {
		if v := os.Getenv(env.RemoteBaseURL); v != "" {
			c.Remote.BaseURL = v
		}
	}
	if env.RemoteHealthTimeout != "" {
		if v := os.Getenv(env.RemoteHealthTimeout); v != "" {
			c.Remote.HealthTimeout = v
		}
	}
	if env.RemoteRequestTimeout != "" {
		if v := os.Getenv(env.RemoteRequestTimeout); v != "" {
			c.Remote.RequestTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold >= 1 {
		return fmt.Errorf("similarity_threshold must be in (0, 1)")
	}
	if _, err := time.ParseDuration(c.Remote.HealthTimeout); err != nil {
		return fmt.Errorf("invalid health_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Remote.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	return nil
}
