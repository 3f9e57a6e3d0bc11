// Package config loads flowdoc settings.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file (~/.config/flowdoc/config.toml unless --config is given)
//  3. FLOWDOC_* environment variables, optionally read from a .env file
//
// Example file:
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//
//	[store]
//	backend = "redis"
//
//	[store.redis]
//	addr = "localhost:6379"
//
//	[cache]
//	backend = "file"
//	ttl = "24h"
package config

import (
	"time"

	"github.com/matzehuels/flowdoc/pkg/errors"
)

// Backend names shared by the store and cache sections.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the complete flowdoc configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	// MaxBodyBytes limits request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `toml:"metrics"`
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// CacheConfig selects and configures the render cache.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	TTL     Duration    `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig holds connection settings for a Redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig holds connection settings for a MongoDB backend.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Theme  string `toml:"theme"`
	Format string `toml:"format"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration. Directory settings are left
// empty and resolved against the XDG directories at use.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{10 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
			MaxBodyBytes:    1 << 20,
			Metrics:         true,
		},
		Store: StoreConfig{
			Backend: BackendFile,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "flowdoc:"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: "flowdoc"},
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{24 * time.Hour},
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "flowdoc:cache:"},
		},
		Render: RenderConfig{Theme: "default", Format: "svg"},
		Log:    LogConfig{Level: "info"},
	}
}

// Validate checks enumerated values and required connection settings.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must be positive")
	}
	if err := oneOf("store.backend", c.Store.Backend, BackendMemory, BackendFile, BackendRedis, BackendMongo); err != nil {
		return err
	}
	if err := oneOf("cache.backend", c.Cache.Backend, BackendNone, BackendFile, BackendRedis); err != nil {
		return err
	}
	if c.Store.Backend == BackendRedis && c.Store.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.redis.addr is required for the redis backend")
	}
	if c.Store.Backend == BackendMongo && (c.Store.Mongo.URI == "" || c.Store.Mongo.Database == "") {
		return errors.New(errors.ErrCodeInvalidConfig, "store.mongo.uri and store.mongo.database are required for the mongo backend")
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	return oneOf("log.level", c.Log.Level, "debug", "info", "warn", "error")
}

func oneOf(field, value string, allowed ...string) error {
	return errors.ValidateOneOf(errors.ErrCodeInvalidConfig, field, value, allowed...)
}

// Duration is a time.Duration that reads and writes strings like "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
