// Package errors provides structured error types for the worldmaps renderer.
//
// Every failure a render can hit is reported as an [*Error] carrying a
// machine-readable [Code], so the CLI can present a clean message and
// callers can branch on the failure kind without string matching.
//
// # Error Codes
//
// The rendering pipeline produces five kinds of failure:
//   - SOURCE_READ: a geometry source is missing, malformed or unsupported
//   - PROJECTION: a coordinate could not be reprojected or mapped
//   - GEOMETRY_OPERATION: a boolean operation produced or received invalid geometry
//   - CANVAS_CLOSED: a drawing call reached a canvas that was already closed
//   - OUTPUT_WRITE: the output file could not be created, encoded or persisted
//
// Configuration and programmer errors use INVALID_* and INTERNAL_ERROR.
//
// # Usage
//
//	err := errors.Wrap(errors.ErrCodeSourceRead, cause, "read %s", path)
//	if errors.Is(err, errors.ErrCodeSourceRead) {
//	    // report a bad data path
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
	// Pipeline stage failures
	ErrCodeSourceRead        Code = "SOURCE_READ"
	ErrCodeProjection        Code = "PROJECTION"
	ErrCodeGeometryOperation Code = "GEOMETRY_OPERATION"
	ErrCodeCanvasClosed      Code = "CANVAS_CLOSED"
	ErrCodeOutputWrite       Code = "OUTPUT_WRITE"

	// Configuration errors
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidScenario Code = "INVALID_SCENARIO"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

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
// For *Error types, returns the message and the cause without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// SourceRead reports a geometry source that could not be read.
func SourceRead(cause error, path string) *Error {
	return Wrap(ErrCodeSourceRead, cause, "read geometry source %s", path)
}

// Projection reports a coordinate that could not be transformed.
func Projection(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeProjection, cause, format, args...)
}

// GeometryOperation reports a failed or invalid geometry operation.
func GeometryOperation(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeGeometryOperation, cause, format, args...)
}

// OutputWrite reports a failure persisting a rendered image.
func OutputWrite(cause error, path string) *Error {
	return Wrap(ErrCodeOutputWrite, cause, "write output %s", path)
}
