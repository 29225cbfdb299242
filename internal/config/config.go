// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	AppEnv           string   `env:"APP_ENV" envDefault:"production"`
	HTTP             HTTP     `envPrefix:"HTTP_"`
	Store            Store    `envPrefix:"STORE_"`
	Postgres         Postgres `envPrefix:"POSTGRES_"`
	Redis            Redis    `envPrefix:"REDIS_"`
	RateLimitRPS     int      `env:"RATE_LIMIT_RPS" envDefault:"0"`
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
}

// HTTP holds the listen address and server timeouts.
type HTTP struct {
	Addr              string        `env:"ADDR" envDefault:":5000"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Store selects the backend. Path is the JSON file for "file" and the
// database file for "sqlite".
type Store struct {
	Backend string `env:"BACKEND" envDefault:"file"`
	Path    string `env:"PATH" envDefault:"characters.json"`
}

type Postgres struct {
	DSN            string        `env:"DSN"`
	MaxConns       int32         `env:"MAX_CONNS" envDefault:"10"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
}

// Redis is optional; an empty Addr disables rate limiting.
type Redis struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// LoadFromEnv parses the environment and validates the result.
func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
		if c.Store.Path == "" {
			return errors.New("STORE_PATH is required")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q (allowed: file, sqlite, postgres)", c.Store.Backend)
	}
	if c.RateLimitRPS < 0 {
		return errors.New("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimitRPS > 0 && c.Redis.Addr == "" {
		return errors.New("REDIS_ADDR is required when RATE_LIMIT_RPS is set")
	}
	return nil
}

func (c Config) IsLocal() bool { return c.AppEnv == "local" }
