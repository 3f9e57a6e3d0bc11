package config

import (
	"os"
	"path/filepath"
)

// AppName names the per-user directories.
const AppName = "flowdoc"

// ConfigDir returns $XDG_CONFIG_HOME/flowdoc or ~/.config/flowdoc.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// CacheDir returns $XDG_CACHE_HOME/flowdoc or ~/.cache/flowdoc.
func CacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns $XDG_DATA_HOME/flowdoc or ~/.local/share/flowdoc.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// DefaultPath is the config file read when no path is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// StoreDir returns the configured store directory or the default one.
func (c StoreConfig) StoreDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(DataDir(), "documents")
}

// CacheDir returns the configured cache directory or the default one.
func (c CacheConfig) CacheDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(CacheDir(), "render")
}

func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, fallback, AppName)
}
