package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownOption indicates the option name is not registered.
	ErrUnknownOption = errors.New("unknown option")

	// ErrTypeMismatch indicates the value type doesn't match the option type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrDuplicateOption indicates an attempt to register an existing option.
	ErrDuplicateOption = errors.New("option already registered")

	// ErrNotBool indicates a toggle was attempted on a non-boolean option.
	ErrNotBool = errors.New("option is not boolean")

	// ErrUnsupportedFormat indicates the file extension is not a known format.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrWatcherClosed indicates use of a watcher after Close.
	ErrWatcherClosed = errors.New("watcher closed")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// TypeError is returned when a value cannot be coerced to an option's type.
type TypeError struct {
	// Option is the option name.
	Option string
	// Expected is the expected type name.
	Expected string
	// Actual is the actual type name.
	Actual string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Option, e.Expected, e.Actual)
}

// Is implements error matching for TypeError.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}
