// Package config provides centralized configuration for the importer
// service. Settings come from environment variables with defaults applied
// and are validated on startup so misconfiguration fails fast.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Import    ImportConfig
	Shortlink ShortlinkConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request body
	// (default: 30s; uploads can be large)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing the response
	// (default: 0 so SSE progress streams are not cut off)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the graceful-shutdown budget (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// Addr returns the host:port to listen on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ImportConfig holds import-run settings.
type ImportConfig struct {
	// ChunkSize is the number of rows submitted per remote call
	// (default: 100)
	ChunkSize int `env:"IMPORT_CHUNK_SIZE" default:"100"`

	// MaxFileSize is the maximum upload size in bytes (default: 20MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"20971520"`

	// Timeout bounds one whole import run (default: 10m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"10m"`
}

// ShortlinkConfig holds record-creation API client settings.
type ShortlinkConfig struct {
	// BaseURL is the API root (required)
	BaseURL string `env:"SHORTLINK_API_URL" envAlt:"SHORTLINK_BASE_URL" required:"true"`

	// APIKey authenticates chunk submissions (optional)
	APIKey string `env:"SHORTLINK_API_KEY"`

	// Timeout bounds one chunk submission (default: 60s)
	Timeout time.Duration `env:"SHORTLINK_TIMEOUT" default:"60s"`

	// MaxRetries is the retry budget per chunk for transient failures
	// (default: 2)
	MaxRetries int `env:"SHORTLINK_MAX_RETRIES" default:"2"`
}

// DatabaseConfig holds the run-history store settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Empty disables run
	// history; the importer itself does not need a database.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the connection pool ceiling (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`
}

// LoggingConfig holds structured-logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Validate checks cross-field constraints the tag loader cannot express.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Import.ChunkSize < 1 {
		return fmt.Errorf("import chunk size must be positive, got %d", c.Import.ChunkSize)
	}
	if c.Import.MaxFileSize < 1 {
		return fmt.Errorf("import max file size must be positive, got %d", c.Import.MaxFileSize)
	}
	if c.Shortlink.MaxRetries < 0 {
		return fmt.Errorf("shortlink max retries must not be negative, got %d", c.Shortlink.MaxRetries)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	return nil
}
