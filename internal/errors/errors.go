package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrorTypeUnknown represents an unclassified error
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeValidation represents malformed user input (durations, arguments)
	ErrorTypeValidation
	// ErrorTypeAuth represents a rejected or missing API key
	ErrorTypeAuth
	// ErrorTypeAPI represents a non-2xx response from the Clockify API
	ErrorTypeAPI
	// ErrorTypeNetwork represents network connectivity errors
	ErrorTypeNetwork
	// ErrorTypeRuntime represents general runtime errors
	ErrorTypeRuntime
	// ErrorTypeConfig represents configuration file errors
	ErrorTypeConfig
	// ErrorTypeNotFound represents a workspace, project or entry lookup miss
	ErrorTypeNotFound
)

// CLIError wraps errors with type information and context for better UX
type CLIError struct {
	Type    ErrorType
	Err     error
	Context string // Additional context or help text for the user
}

// Error implements the error interface
func (e *CLIError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%v\n%s", e.Err, e.Context)
	}
	return e.Err.Error()
}

// Unwrap implements error unwrapping for Go 1.13+ error chains
func (e *CLIError) Unwrap() error {
	return e.Err
}

// ValidationError creates a validation error (shows usage hints)
func ValidationError(err error, context string) *CLIError {
	return &CLIError{
		Type:    ErrorTypeValidation,
		Err:     err,
		Context: context,
	}
}

// AuthErrorWithContext creates an authentication error with context
func AuthErrorWithContext(err error, context string) *CLIError {
	return &CLIError{
		Type:    ErrorTypeAuth,
		Err:     err,
		Context: context,
	}
}

// APIError creates an API error
func APIError(err error) *CLIError {
	return &CLIError{
		Type: ErrorTypeAPI,
		Err:  err,
	}
}

// NetworkError creates a network error
func NetworkError(err error) *CLIError {
	return &CLIError{
		Type: ErrorTypeNetwork,
		Err:  err,
	}
}

// RuntimeError creates a runtime error
func RuntimeError(err error) *CLIError {
	return &CLIError{
		Type: ErrorTypeRuntime,
		Err:  err,
	}
}

// ConfigError creates a configuration error
func ConfigError(err error) *CLIError {
	return &CLIError{
		Type: ErrorTypeConfig,
		Err:  err,
	}
}

// NotFoundError creates a lookup error
func NotFoundError(err error, context string) *CLIError {
	return &CLIError{
		Type:    ErrorTypeNotFound,
		Err:     err,
		Context: context,
	}
}

// reportedError marks an error whose message was already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported marks err as already shown, so the entry point only sets the exit
// code. A nil err stays nil.
func Reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// IsReported reports whether err was marked with Reported.
func IsReported(err error) bool {
	var r *reportedError
	return stderrors.As(err, &r)
}
