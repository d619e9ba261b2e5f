// Package config loads server settings from an optional YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends understood by the server.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Server holds HTTP listener settings.
type Server struct {
	ListenAddress string        `yaml:"listen_address"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	// RateLimitPerMinute is the per-IP request budget. A negative value
	// disables limiting.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

// Redis holds the Redis connection settings.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Postgres holds the PostgreSQL connection settings.
type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN builds a libpq-compatible connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}

// Store selects the storage backend and holds its settings.
type Store struct {
	Backend  string   `yaml:"backend"`
	Redis    Redis    `yaml:"redis"`
	Postgres Postgres `yaml:"postgres"`
}

// Log holds logging settings.
type Log struct {
	Level string `yaml:"level"`
}

// SlogLevel maps the configured level name onto slog. Unknown names mean info.
func (l Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the full application configuration.
type Config struct {
	Server Server `yaml:"server"`
	Store  Store  `yaml:"store"`
	Log    Log    `yaml:"log"`
}

// Load reads path (if non-empty), then applies environment overrides and
// defaults. A missing file at the default path is not an error.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse yaml: %w", err)
			}
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.ListenAddress = ":" + v
	}
	setString(&c.Store.Backend, "STORE_BACKEND")
	setString(&c.Store.Redis.Addr, "REDIS_ADDR")
	setString(&c.Store.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Store.Postgres.Host, "DB_HOST")
	setString(&c.Store.Postgres.Port, "DB_PORT")
	setString(&c.Store.Postgres.User, "DB_USER")
	setString(&c.Store.Postgres.Password, "DB_PASSWORD")
	setString(&c.Store.Postgres.DBName, "DB_NAME")
	setString(&c.Store.Postgres.SSLMode, "DB_SSLMODE")
	setString(&c.Log.Level, "LOG_LEVEL")

	if err := setInt(&c.Store.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}
	return setInt(&c.Server.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":5000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.RateLimitPerMinute == 0 {
		c.Server.RateLimitPerMinute = 200
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendRedis
	}
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = "localhost:6379"
	}
	pg := &c.Store.Postgres
	if pg.Host == "" {
		pg.Host = "localhost"
	}
	if pg.Port == "" {
		pg.Port = "5432"
	}
	if pg.User == "" {
		pg.User = "postgres"
	}
	if pg.Password == "" {
		pg.Password = "postgres"
	}
	if pg.DBName == "" {
		pg.DBName = "eventmanager"
	}
	if pg.SSLMode == "" {
		pg.SSLMode = "disable"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate reports settings that cannot be started with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendRedis, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unsupported store backend %q", c.Store.Backend)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
