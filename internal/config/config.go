// Package config defines scorelink's configuration and loads it from
// TOML or YAML files.
package config

import (
	"fmt"
	"strings"
)

// Config is the full scorelink configuration.
type Config struct {
	// Scheme is the URL scheme recognized in rendered link dumps.
	Scheme string `toml:"scheme" yaml:"scheme"`

	// Verbosity sets the log verbosity; higher is chattier.
	Verbosity int `toml:"verbosity" yaml:"verbosity"`

	// Watch controls link dump watching.
	Watch WatchConfig `toml:"watch" yaml:"watch"`
}

// WatchConfig controls reloading of the link dump when the engraver
// rewrites it.
type WatchConfig struct {
	// Enabled turns dump watching on.
	Enabled bool `toml:"enabled" yaml:"enabled"`

	// DebounceMS is the quiet period in milliseconds before a changed
	// dump is reloaded.
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Scheme:    "textedit",
		Verbosity: 0,
		Watch: WatchConfig{
			Enabled:    false,
			DebounceMS: 250,
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	scheme := strings.TrimSpace(c.Scheme)
	if scheme == "" {
		return ErrEmptyScheme
	}
	if strings.Contains(scheme, "://") || strings.ContainsAny(scheme, " \t") {
		return fmt.Errorf("%w: %q", ErrInvalidScheme, c.Scheme)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidVerbosity, c.Verbosity)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDebounce, c.Watch.DebounceMS)
	}
	return nil
}
