package config

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Scheme != "textedit" {
		t.Errorf("expected scheme textedit, got %s", cfg.Scheme)
	}
	if cfg.Watch.DebounceMS != 250 {
		t.Errorf("expected 250ms debounce, got %d", cfg.Watch.DebounceMS)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "empty scheme",
			mutate:  func(c *Config) { c.Scheme = "" },
			wantErr: ErrEmptyScheme,
		},
		{
			name:    "scheme with separator",
			mutate:  func(c *Config) { c.Scheme = "textedit://" },
			wantErr: ErrInvalidScheme,
		},
		{
			name:    "scheme with space",
			mutate:  func(c *Config) { c.Scheme = "text edit" },
			wantErr: ErrInvalidScheme,
		},
		{
			name:    "negative verbosity",
			mutate:  func(c *Config) { c.Verbosity = -1 },
			wantErr: ErrInvalidVerbosity,
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Watch.DebounceMS = -10 },
			wantErr: ErrInvalidDebounce,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadTOML(t *testing.T) {
	fsys := fstest.MapFS{
		"config.toml": &fstest.MapFile{Data: []byte(
			"scheme = \"lilypond\"\nverbosity = 2\n\n[watch]\nenabled = true\ndebounce_ms = 100\n",
		)},
	}

	cfg, err := NewLoaderWithFS(fsys).Load("config.toml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scheme != "lilypond" || cfg.Verbosity != 2 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !cfg.Watch.Enabled || cfg.Watch.DebounceMS != 100 {
		t.Errorf("unexpected watch config: %+v", cfg.Watch)
	}
}

func TestLoadYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"config.yaml": &fstest.MapFile{Data: []byte(
			"scheme: lilypond\nwatch:\n  enabled: true\n",
		)},
	}

	cfg, err := NewLoaderWithFS(fsys).Load("config.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scheme != "lilypond" {
		t.Errorf("expected scheme lilypond, got %s", cfg.Scheme)
	}
	if !cfg.Watch.Enabled {
		t.Error("expected watch enabled")
	}
	// Unset fields keep their defaults.
	if cfg.Watch.DebounceMS != 250 {
		t.Errorf("expected default debounce, got %d", cfg.Watch.DebounceMS)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := NewLoaderWithFS(fstest.MapFS{}).Load("config.toml")
	if err != nil {
		t.Fatalf("expected missing file to not be an error, got %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config for a missing file, got %+v", cfg)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	fsys := fstest.MapFS{
		"config.ini": &fstest.MapFile{Data: []byte("scheme=lilypond\n")},
	}

	_, err := NewLoaderWithFS(fsys).Load("config.ini")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"config.toml": &fstest.MapFile{Data: []byte("scheme = [broken\n")},
	}

	_, err := NewLoaderWithFS(fsys).Load("config.toml")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected a ParseError, got %v", err)
	}
	if parseErr.Path != "config.toml" {
		t.Errorf("expected path config.toml, got %s", parseErr.Path)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	fsys := fstest.MapFS{
		"config.toml": &fstest.MapFile{Data: []byte("scheme = \"bad scheme\"\n")},
	}

	_, err := NewLoaderWithFS(fsys).Load("config.toml")
	if !errors.Is(err, ErrInvalidScheme) {
		t.Errorf("expected ErrInvalidScheme, got %v", err)
	}
}
