package config

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrEmptyScheme      = errors.New("scheme must not be empty")
	ErrInvalidScheme    = errors.New("scheme must be a bare name without separators")
	ErrInvalidVerbosity = errors.New("verbosity must not be negative")
	ErrInvalidDebounce  = errors.New("watch debounce must not be negative")
)

// ErrUnsupportedFormat indicates a config file extension no parser
// handles.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
