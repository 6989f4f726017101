/*
Package config loads the service configuration.

PURPOSE:
  One TOML file configures the HTTP server, the SQLite path, admin auth,
  logging and preset handling. A missing file is not an error: every field
  has a default, so `hukuk serve` works out of the box for local use.

FILE FORMAT:
  [server]
  host = "0.0.0.0"
  port = 8080
  read_timeout = "15s"
  allowed_origins = ["https://hukukrehberi.example"]

  [database]
  path = "./data/hukuk.db"

  [auth]
  jwt_secret = "change-me"
  token_ttl = "30m"
  admin_username = "admin"
  admin_password_hash = "$2a$10$..."   # hukuk hash-password

  [log]
  level = "info"
  format = "json"

  [presets]
  dir = "./presets"
  active = "tr-2025-h1"
  auto_advance = true
  check_interval = "1h"

ENVIRONMENT OVERRIDES:
  HUKUK_JWT_SECRET, HUKUK_DB_PATH, HUKUK_PORT
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration decodes TOML strings such as "15s" or "1h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the root of the TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Log      LogConfig      `toml:"log"`
	Presets  PresetsConfig  `toml:"presets"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	StaticDir       string   `toml:"static_dir"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig points at the SQLite file. ":memory:" is allowed.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// AuthConfig configures admin login and JWT signing.
type AuthConfig struct {
	JWTSecret         string   `toml:"jwt_secret"`
	Issuer            string   `toml:"issuer"`
	TokenTTL          Duration `toml:"token_ttl"`
	AdminUsername     string   `toml:"admin_username"`
	AdminPasswordHash string   `toml:"admin_password_hash"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json | console
}

// PresetsConfig controls jurisdiction presets.
type PresetsConfig struct {
	Dir           string   `toml:"dir"`
	Active        string   `toml:"active"`
	AutoAdvance   bool     `toml:"auto_advance"`
	CheckInterval Duration `toml:"check_interval"`
}

// DefaultConfig returns a configuration suitable for local development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{15 * time.Second},
			ShutdownTimeout: Duration{30 * time.Second},
			AllowedOrigins:  []string{"*"},
		},
		Database: DatabaseConfig{
			Path: "./data/hukuk.db",
		},
		Auth: AuthConfig{
			Issuer:        "hukuk-calc",
			TokenTTL:      Duration{30 * time.Minute},
			AdminUsername: "admin",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Presets: PresetsConfig{
			Dir:           "./presets",
			CheckInterval: Duration{time.Hour},
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path or a missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("HUKUK_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := getenv("HUKUK_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := getenv("HUKUK_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HUKUK_PORT: %w", err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Auth.TokenTTL.Duration <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Presets.AutoAdvance && c.Presets.CheckInterval.Duration <= 0 {
		return fmt.Errorf("presets.check_interval must be positive when auto_advance is on")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}
	return nil
}

// AdminEnabled reports whether admin endpoints can issue tokens.
func (c *Config) AdminEnabled() bool {
	return c.Auth.JWTSecret != "" && c.Auth.AdminPasswordHash != ""
}
