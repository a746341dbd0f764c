package errors

import (
	"errors"
	"fmt"
)

// Error is the structured error type for transcripter.
type Error struct {
	// Code is the unique error code (e.g., "ERR_201_STORE_UNREACHABLE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Store, Source, ...).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code so errors.Is works across wrapped instances.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates an Error from an existing error.
// The wrapped error's message becomes the Error message.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// StoreError creates a store-connection error.
func StoreError(message string, cause error) *Error {
	return New(ErrCodeStoreUnreachable, message, cause)
}

// SourceError creates a video-source error.
func SourceError(message string, cause error) *Error {
	return New(ErrCodeSourceUnreachable, message, cause)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *Error {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *Error {
	return New(ErrCodeInvalidInput, message, cause)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// IsFatal checks if an error has fatal severity.
// Fatal errors abort the current operation.
func IsFatal(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from an Error.
// Returns empty string for plain errors.
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
