package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/vantage/pkg/database"
	"github.com/JaimeStill/vantage/pkg/storage"
)

const (
	BaseConfigFile       = "config.json"
	OverlayConfigPattern = "config.%s.json"

	EnvVantageEnv             = "VANTAGE_ENV"
	EnvVantageShutdownTimeout = "VANTAGE_SHUTDOWN_TIMEOUT"
	EnvVantageVersion         = "VANTAGE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "VANTAGE_DB_HOST",
	Port:            "VANTAGE_DB_PORT",
	Name:            "VANTAGE_DB_NAME",
	User:            "VANTAGE_DB_USER",
	Password:        "VANTAGE_DB_PASSWORD",
	SSLMode:         "VANTAGE_DB_SSL_MODE",
	MaxOpenConns:    "VANTAGE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "VANTAGE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "VANTAGE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "VANTAGE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "VANTAGE_STORAGE_CONTAINER_NAME",
	ConnectionString: "VANTAGE_STORAGE_CONNECTION_STRING",
}

// Config is the root configuration for the Vantage service.
type Config struct {
	Server          ServerConfig       `json:"server"`
	Database        database.Config    `json:"database"`
	Storage         storage.Config     `json:"storage"`
	API             APIConfig          `json:"api"`
	Intelligence    IntelligenceConfig `json:"intelligence"`
	ShutdownTimeout string             `json:"shutdown_timeout"`
	Version         string             `json:"version"`
}

// Env returns the VANTAGE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVantageEnv); env != "" {
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
// and finalizes all values. If no config.json exists, defaults and environment
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
	c.Intelligence.Merge(&overlay.Intelligence)
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
	if err := c.Intelligence.Finalize(); err != nil {
		return fmt.Errorf("intelligence: %w", err)
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
	if v := os.Getenv(EnvVantageShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvVantageVersion); v != "" {
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
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvVantageEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
