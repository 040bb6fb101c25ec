// Package errors provides structured error types for the vgrid tools.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the batch CLI and the designer
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The core computation reports a closed set of failure kinds (parameter
// domains, table monotonicity, builder inputs, assigner inputs); the I/O
// shell adds codes for mesh and grid file problems.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParameterOutOfRange, "theta_f must be in (0, 20], got %g", thetaF)
//	if errors.Is(err, errors.ErrCodeParameterOutOfRange) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidMesh, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Stretching function errors
	ErrCodeParameterOutOfRange Code = "PARAMETER_OUT_OF_RANGE"
	ErrCodeDegenerateProfile   Code = "DEGENERATE_PROFILE"

	// Master grid table and builder errors
	ErrCodeMonotonicityViolation Code = "MONOTONICITY_VIOLATION"
	ErrCodeArityMismatch         Code = "ARITY_MISMATCH"
	ErrCodeClusteringError       Code = "CLUSTERING_ERROR"
	ErrCodeInvalidSpec           Code = "INVALID_SPEC"

	// Node level assignment errors
	ErrCodeEmptyTable    Code = "EMPTY_TABLE"
	ErrCodeNegativeDepth Code = "NEGATIVE_DEPTH"

	// I/O shell errors
	ErrCodeInvalidMesh  Code = "INVALID_MESH"
	ErrCodeInvalidGrid  Code = "INVALID_GRID"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
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
