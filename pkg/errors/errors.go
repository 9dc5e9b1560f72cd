package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Sentiment pipeline errors

var (
	// ErrRateLimited indicates an upstream API rate limit was hit
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrSourceUnavailable indicates a data source API is unreachable
	ErrSourceUnavailable = errors.New("source unavailable")
)

// Configuration errors (fatal at startup, reported before any fetch)

var (
	// ErrMissingCredential indicates a required API credential is absent
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidWeight indicates a negative source weight
	ErrInvalidWeight = errors.New("invalid source weight")

	// ErrInvalidConfig indicates a malformed configuration value
	ErrInvalidConfig = errors.New("invalid configuration")
)

// FetchError wraps a single source's fetch failure. A FetchError degrades
// that source to zero items; it never aborts aggregation of the rest.
type FetchError struct {
	Source string
	Err    error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

// Unwrap returns the wrapped error
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new fetch error for a source
func NewFetchError(source string, err error) *FetchError {
	return &FetchError{Source: source, Err: err}
}

// ConfigError wraps a configuration failure with the offending field
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new configuration error
func NewConfigError(field, message string, err error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Err: err}
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
