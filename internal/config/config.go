package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"objbrowse/internal/settings"
)

// Config is the user-level configuration from ~/.objbrowse/config.toml.
// It supplies per-window model-setting overrides and log options; per-window
// state (geometry, columns, filters as last used) lives in the settings
// database instead.
type Config struct {
	Refresh RefreshConfig `toml:"refresh"`
	Filters FilterConfig  `toml:"filters"`
	Log     LogConfig     `toml:"log"`
}

// RefreshConfig configures auto-refresh. Nil fields defer to each window's
// persisted settings.
type RefreshConfig struct {
	Auto            *bool `toml:"auto"`
	IntervalSeconds *int  `toml:"interval_seconds"`
}

// FilterConfig configures attribute visibility. Nil fields defer to each
// window's persisted settings.
type FilterConfig struct {
	ShowCallables *bool `toml:"show_callables"`
	ShowSpecials  *bool `toml:"show_specials"`
}

// LogConfig configures the rotated log file.
type LogConfig struct {
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Dir returns the application's config/state directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".objbrowse"), nil
}

// DefaultPath returns the config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// SettingsDBPath returns the settings database location.
func SettingsDBPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.db"), nil
}

// Load reads the config at path. A missing file yields the zero config and
// no error; a file that fails to parse yields the zero config too — bad
// configuration should never keep the browser from opening.
func Load(path string) *Config {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return &Config{}
	}

	// An invalid interval is dropped rather than forwarded; the session
	// treats a non-positive interval as a hard configuration error.
	if cfg.Refresh.IntervalSeconds != nil && *cfg.Refresh.IntervalSeconds <= 0 {
		cfg.Refresh.IntervalSeconds = nil
	}
	return cfg
}

// Overrides maps the config's refresh and filter sections onto model-setting
// overrides for session creation.
func (c *Config) Overrides() settings.ModelOverrides {
	return settings.ModelOverrides{
		AutoRefresh:    c.Refresh.Auto,
		RefreshSeconds: c.Refresh.IntervalSeconds,
		ShowCallables:  c.Filters.ShowCallables,
		ShowSpecials:   c.Filters.ShowSpecials,
	}
}
