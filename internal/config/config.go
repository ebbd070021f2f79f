// Package config defines the typed configuration for the folio server,
// loaded from folio.yaml and overridable through FOLIO_* environment
// variables (wired up by the CLI via viper).
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration file structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Mail      MailConfig      `yaml:"mail"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig selects and tunes the backing database.
// For mysql DSNs, parseTime=true is required so DATETIME columns scan into
// time.Time.
type DatabaseConfig struct {
	Driver       string `yaml:"driver"` // postgres, mysql, or sqlite
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// AuthConfig controls admin token issuance.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	TokenTTL  string `yaml:"token_ttl"` // Go duration string, default 24h
}

// MailConfig controls the outbound notification email. An empty APIKey
// disables notifications entirely.
type MailConfig struct {
	APIKey string `yaml:"api_key"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
}

// RateLimitConfig controls the contact-form limiter. RedisAddr, when set,
// swaps the in-process fixed-window store for a shared Redis one.
type RateLimitConfig struct {
	Max       int    `yaml:"max"`
	Window    string `yaml:"window"` // Go duration string, default 1h
	RedisAddr string `yaml:"redis_addr"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file or overrides exist:
// an in-memory SQLite database and the contact-form limits from the
// original deployment (3 submissions per hour per IP).
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:       "sqlite",
			DSN:          "",
			MaxOpenConns: 5,
			MaxIdleConns: 2,
		},
		Auth: AuthConfig{
			TokenTTL: "24h",
		},
		RateLimit: RateLimitConfig{
			Max:    3,
			Window: "1h",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that would otherwise only fail at request time.
// In dev mode an empty JWT secret is tolerated (the server substitutes a
// static development secret).
func (c *Config) Validate(dev bool) error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if c.Database.Driver != "sqlite" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
	}
	if !dev && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required outside dev mode")
	}
	if _, err := c.TokenTTL(); err != nil {
		return fmt.Errorf("auth.token_ttl: %w", err)
	}
	if _, err := c.RateLimitWindow(); err != nil {
		return fmt.Errorf("rate_limit.window: %w", err)
	}
	if c.RateLimit.Max < 1 {
		return fmt.Errorf("rate_limit.max must be at least 1, got %d", c.RateLimit.Max)
	}
	return nil
}

// TokenTTL parses the auth token lifetime.
func (c *Config) TokenTTL() (time.Duration, error) {
	if c.Auth.TokenTTL == "" {
		return 24 * time.Hour, nil
	}
	return time.ParseDuration(c.Auth.TokenTTL)
}

// RateLimitWindow parses the rate-limit window duration.
func (c *Config) RateLimitWindow() (time.Duration, error) {
	if c.RateLimit.Window == "" {
		return time.Hour, nil
	}
	return time.ParseDuration(c.RateLimit.Window)
}
