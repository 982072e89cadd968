package pipeline

import (
	"fmt"
	"os"

	"github.com/sajilokaam/docpipe/pkg/formatting"
)

// Config holds pipeline processing settings.
type Config struct {
	MaxFileSize string `toml:"max_file_size"`
	OCRLanguage string `toml:"ocr_language"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	MaxFileSize string
	OCRLanguage string
}

// MaxFileSizeBytes returns MaxFileSize as a byte count.
func (c *Config) MaxFileSizeBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxFileSize)
	return n
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
	if overlay.MaxFileSize != "" {
		c.MaxFileSize = overlay.MaxFileSize
	}
	if overlay.OCRLanguage != "" {
		c.OCRLanguage = overlay.OCRLanguage
	}
}

func (c *Config) loadDefaults() {
	if c.MaxFileSize == "" {
		c.MaxFileSize = "10MB"
	}
	if c.OCRLanguage == "" {
		c.OCRLanguage = "eng"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.MaxFileSize != "" {
		if v := os.Getenv(env.MaxFileSize); v != "" {
			c.MaxFileSize = v
		}
	}
	if env.OCRLanguage != "" {
		if v := os.Getenv(env.OCRLanguage); v != "" {
			c.OCRLanguage = v
		}
	}
}

func (c *Config) validate() error {
	n, err := formatting.ParseBytes(c.MaxFileSize)
	if err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("max_file_size must be positive")
	}
	return nil
}
