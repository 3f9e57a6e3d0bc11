package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	flowerrors "github.com/matzehuels/flowdoc/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FLOWDOC_"

// Load reads the TOML file at path over [Default], applies environment
// overrides and validates the result. A missing file is not an error when
// path is the default location; an explicitly given path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := decodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return Config{}, err
		}
	}

	if err := LoadDotEnv(""); err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return flowerrors.Wrap(flowerrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Decode(data, cfg)
}

// Decode reads TOML data over cfg. Unknown keys are rejected so that typos
// do not silently fall back to defaults.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	if err != nil {
		return flowerrors.Wrap(flowerrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return flowerrors.New(flowerrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Encode writes cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. An empty path searches the
// working directory and its parents; a missing file is ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		path = findDotEnv()
		if path == "" {
			return nil
		}
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return flowerrors.Wrap(flowerrors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return nil
}

func findDotEnv() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ApplyEnv overrides settings from FLOWDOC_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SERVER_ADDR":          &c.Server.Addr,
		"STORE_BACKEND":        &c.Store.Backend,
		"STORE_DIR":            &c.Store.Dir,
		"STORE_REDIS_ADDR":     &c.Store.Redis.Addr,
		"STORE_REDIS_PASSWORD": &c.Store.Redis.Password,
		"STORE_MONGO_URI":      &c.Store.Mongo.URI,
		"STORE_MONGO_DATABASE": &c.Store.Mongo.Database,
		"CACHE_BACKEND":        &c.Cache.Backend,
		"CACHE_DIR":            &c.Cache.Dir,
		"CACHE_REDIS_ADDR":     &c.Cache.Redis.Addr,
		"CACHE_REDIS_PASSWORD": &c.Cache.Redis.Password,
		"RENDER_THEME":         &c.Render.Theme,
		"RENDER_FORMAT":        &c.Render.Format,
		"LOG_LEVEL":            &c.Log.Level,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"STORE_REDIS_DB": &c.Store.Redis.DB,
		"CACHE_REDIS_DB": &c.Cache.Redis.DB,
	}
	for name, dst := range ints {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return flowerrors.Wrap(flowerrors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, name)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"SERVER_READ_TIMEOUT":  &c.Server.ReadTimeout.Duration,
		"SERVER_WRITE_TIMEOUT": &c.Server.WriteTimeout.Duration,
		"CACHE_TTL":            &c.Cache.TTL.Duration,
	}
	for name, dst := range durations {
		if v, ok := lookup(EnvPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return flowerrors.Wrap(flowerrors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, name)
			}
			*dst = d
		}
	}

	if v, ok := lookup(EnvPrefix + "SERVER_METRICS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return flowerrors.Wrap(flowerrors.ErrCodeInvalidConfig, err, "%sSERVER_METRICS", EnvPrefix)
		}
		c.Server.Metrics = b
	}
	return nil
}
