// Package errors provides structured error types for swipestack.
//
// The engine only fails in two ways: an instance built from a bad
// configuration, and a content lookup for an index the host does not have.
// Both carry a machine-readable [Code] so hosts can branch on them without
// string matching.
//
// # Error Codes
//
//   - INVALID_CONFIG: construction parameters rejected (fatal to the instance)
//   - INDEX_OUT_OF_RANGE: a logical item index beyond the host's item count
//   - INVALID_INPUT: a malformed request at an outer surface (CLI, HTTP)
//   - NOT_FOUND: an unknown session or resource
//   - INTERNAL_ERROR: anything unexpected
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "item width must be > 0, got %v", w)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // reject the instance
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeOutOfRange    Code = "INDEX_OUT_OF_RANGE"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
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

// OutOfRange reports that index is not within [0, count).
func OutOfRange(index, count int) *Error {
	return New(ErrCodeOutOfRange, "index %d out of range [0, %d)", index, count)
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
