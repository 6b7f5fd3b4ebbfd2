// Package config loads the runtime configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST,default=0.0.0.0"`
	Port            int           `env:"SERVER_PORT,default=5000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT,default=15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT,default=15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT,default=60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS,default=10"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS,default=5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME,default=30m"`
}

// AuthConfig holds the token service settings.
type AuthConfig struct {
	// JWTSecret signs and verifies admin tokens. Required.
	JWTSecret string `env:"JWT_SECRET"`
	// TokenTTL is how long an issued token stays valid. Default 7 days.
	TokenTTL time.Duration `env:"JWT_EXPIRE,default=168h"`
}

// RateLimitConfig mirrors the storefront's request throttle: a request budget
// refilled over a window, keyed per client address.
type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS,default=100"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW,default=15m"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL,default=info"`
	Format string `env:"LOG_FORMAT,default=json"`
}

// Config is the full runtime configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig

	// AllowedOriginsRaw is the comma-separated CORS allowlist.
	AllowedOriginsRaw string `env:"ALLOWED_ORIGINS,default=http://localhost:8080;http://localhost:5173"`
}

// Load decodes the configuration from the environment and validates the
// settings the server cannot run without.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return &cfg, nil
}

// AllowedOrigins returns the parsed CORS allowlist. Entries may be separated
// by commas or semicolons; surrounding whitespace is ignored.
func (c *Config) AllowedOrigins() []string {
	raw := strings.ReplaceAll(c.AllowedOriginsRaw, ";", ",")
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
