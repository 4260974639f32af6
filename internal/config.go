package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/bloggerbox/internal/cache"
	"github.com/starford/bloggerbox/internal/store"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Database DatabaseConfig    `yaml:"database"`
	Cache    CacheConfig       `yaml:"cache"`
	Events   EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return c.Events.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
	CORS     CORSConfig `yaml:"cors"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CORSConfig lists the origins allowed to call the API from a browser.
// Empty or "*" allows any origin.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig selects the SQL backend.
type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// Validate validates the database configuration. Only the selected backend must be complete.
func (c *DatabaseConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required,
			validation.In(string(store.DialectSQLite), string(store.DialectPostgres))),
	); err != nil {
		return err
	}
	if store.Dialect(c.Driver) == store.DialectPostgres {
		return c.Postgres.Validate()
	}
	return c.SQLite.Validate()
}

// Source returns the dialect and data source name to open.
func (c *DatabaseConfig) Source() (store.Dialect, string) {
	if store.Dialect(c.Driver) == store.DialectPostgres {
		return store.DialectPostgres, c.Postgres.DSN
	}
	return store.DialectSQLite, c.SQLite.Path
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// Validate validates the PostgreSQL configuration.
func (c *PostgresConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DSN, validation.Required),
	)
}

// CacheConfig configures the Redis category cache. The cache is off when
// no Redis address is set.
type CacheConfig struct {
	Redis RedisConfig   `yaml:"redis"`
	TTL   time.Duration `yaml:"ttl"`
}

// Enabled reports whether a Redis address is configured.
func (c *CacheConfig) Enabled() bool {
	return c.Redis.Address != ""
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TTL, validation.Min(time.Duration(0))),
		validation.Field(&c.Redis),
	)
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Validate validates the Redis configuration.
func (c RedisConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DB, validation.Min(0), validation.Max(15)),
	)
}

// Options converts the settings for cache.Connect.
func (c RedisConfig) Options() cache.Options {
	return cache.Options{Address: c.Address, Password: c.Password, DB: c.DB}
}

// EventsConfig controls the SSE change stream.
type EventsConfig struct {
	Enabled         bool          `yaml:"enabled"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.RefreshInterval, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
			CORS: CORSConfig{
				AllowedOrigins: []string{"*"},
			},
		},
		Database: DatabaseConfig{
			Driver: string(store.DialectSQLite),
			SQLite: SQLiteConfig{
				Path: "./bloggerbox.db",
			},
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Events: EventsConfig{
			Enabled:         true,
			RefreshInterval: 2 * time.Second,
		},
	}
}
