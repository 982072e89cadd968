// Package config loads and finalizes the docpipe service configuration
// from TOML files and environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sajilokaam/docpipe/internal/extraction"
	"github.com/sajilokaam/docpipe/internal/pipeline"
	"github.com/sajilokaam/docpipe/pkg/database"
	"github.com/sajilokaam/docpipe/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvDocpipeEnv             = "DOCPIPE_ENV"
	EnvDocpipeShutdownTimeout = "DOCPIPE_SHUTDOWN_TIMEOUT"
	EnvDocpipeVersion         = "DOCPIPE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "DOCPIPE_DB_HOST",
	Port:            "DOCPIPE_DB_PORT",
	Name:            "DOCPIPE_DB_NAME",
	User:            "DOCPIPE_DB_USER",
	Password:        "DOCPIPE_DB_PASSWORD",
	SSLMode:         "DOCPIPE_DB_SSL_MODE",
	MaxOpenConns:    "DOCPIPE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "DOCPIPE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DOCPIPE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "DOCPIPE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "DOCPIPE_STORAGE_CONTAINER_NAME",
	ConnectionString: "DOCPIPE_STORAGE_CONNECTION_STRING",
}

var extractionEnv = &extraction.Env{
	SimilarityThreshold:  "DOCPIPE_EXTRACTION_SIMILARITY_THRESHOLD",
	RemoteBaseURL:        "DOCPIPE_EXTRACTION_REMOTE_BASE_URL",
	RemoteHealthTimeout:  "DOCPIPE_EXTRACTION_REMOTE_HEALTH_TIMEOUT",
	RemoteRequestTimeout: "DOCPIPE_EXTRACTION_REMOTE_REQUEST_TIMEOUT",
}

var pipelineEnv = &pipeline.Env{
	MaxFileSize: "DOCPIPE_PIPELINE_MAX_FILE_SIZE",
	OCRLanguage: "DOCPIPE_PIPELINE_OCR_LANGUAGE",
}

// Config is the root configuration for the docpipe service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	API             APIConfig         `toml:"api"`
	Extraction      extraction.Config `toml:"extraction"`
	Pipeline        pipeline.Config   `toml:"pipeline"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the DOCPIPE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvDocpipeEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Extraction.Merge(&overlay.Extraction)
	c.Pipeline.Merge(&overlay.Pipeline)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Extraction.Finalize(extractionEnv); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.Pipeline.Finalize(pipelineEnv); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvDocpipeShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvDocpipeVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvDocpipeEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
