package errors

import (
	"errors"
	"fmt"
)

// LogError is the structured error type for amanlog.
// It carries enough context for the caller to decide whether to abort
// startup or continue without logging.
type LogError struct {
	// Code is the unique error code (e.g., "ERR_101_ALREADY_INITIALIZED").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *LogError) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *LogError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with LogError sentinels.
func (e *LogError) Is(target error) bool {
	if t, ok := target.(*LogError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *LogError) WithDetail(key, value string) *LogError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *LogError) WithSuggestion(suggestion string) *LogError {
	e.Suggestion = suggestion
	return e
}

// New creates a new LogError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *LogError {
	return &LogError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a LogError from an existing error.
// The error's message becomes the LogError message.
func Wrap(code string, err error) *LogError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *LogError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates a file I/O error.
func IOError(message string, cause error) *LogError {
	return New(ErrCodeLogFileOpen, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *LogError {
	return New(ErrCodeInternal, message, cause)
}

// As finds the first LogError in err's chain.
func As(err error) (*LogError, bool) {
	var ae *LogError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// GetCode extracts the error code from a LogError.
// Returns empty string if the chain holds no LogError.
func GetCode(err error) string {
	if ae, ok := As(err); ok {
		return ae.Code
	}
	return ""
}
