// Package errors defines the coded errors chartsmith returns.
//
// Every failure a user can act on carries a [Code]: the CLI prints the
// message, exits with status 2 for INVALID_* codes, and the HTTP server maps
// the code to a status with [HTTPStatus] and reports it in the JSON body.
//
//	err := errors.New(errors.ErrCodeChartNotFound, "no chart named %q", name)
//	errors.Is(err, errors.ErrCodeChartNotFound) // true
//
//	err = errors.Wrap(errors.ErrCodeSourceNotFound, cause, "chart %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidChart  Code = "INVALID_CHART"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidSource Code = "INVALID_SOURCE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Data errors
	ErrCodeEmptyDataset  Code = "EMPTY_DATASET"
	ErrCodeMissingColumn Code = "MISSING_COLUMN"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeChartNotFound  Code = "CHART_NOT_FOUND"
	ErrCodeSourceNotFound Code = "SOURCE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the HTTP status the server answers with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidChart, ErrCodeInvalidFormat,
		ErrCodeInvalidPath, ErrCodeInvalidSource:
		return 400
	case ErrCodeNotFound, ErrCodeChartNotFound, ErrCodeSourceNotFound:
		return 404
	case ErrCodeEmptyDataset, ErrCodeMissingColumn:
		return 422
	case ErrCodeRateLimited:
		return 429
	case ErrCodeNetwork, ErrCodeTimeout:
		return 502
	case ErrCodeUnsupported:
		return 501
	}
	return 500
}

// RateLimitedError is returned when a remote data source answers 429.
// RetryAfter is the server's Retry-After in seconds, 0 when absent.
type RateLimitedError struct {
	RetryAfter int
	Message    string
}

// RetryAfter returns the wait the error asks for, in seconds, or 0 when err
// carries no [RateLimitedError].
func RetryAfter(err error) int {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl.RetryAfter
	}
	return 0
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
