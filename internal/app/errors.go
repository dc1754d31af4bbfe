package app

import "errors"

// Application errors.
var (
	// ErrNoDump indicates no link dump path was given.
	ErrNoDump = errors.New("no link dump specified")

	// ErrConfigNotFound indicates an explicitly requested config file
	// does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrUnresolved indicates at least one requested query could not be
	// answered. The report still describes every query.
	ErrUnresolved = errors.New("one or more queries unresolved")
)
