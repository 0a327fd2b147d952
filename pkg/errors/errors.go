// Package errors provides structured error types for snapline.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP adapter
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - FILE_NOT_FOUND: a named file does not exist
//   - DECODE_FAILED / STORAGE_ERROR: persistence failures
//   - INTERNAL_*: Unexpected internal errors
//
// The layout engine itself never fails; only host-facing operations such as
// importing learning data, loading configuration or scene files, and profile
// storage return errors from this package.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidScene, "duplicate component id %d", id)
//	if errors.Is(err, errors.ErrCodeInvalidScene) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDecode, origErr, "decode learning data")
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
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidScene   Code = "INVALID_SCENE"
	ErrCodeInvalidProfile Code = "INVALID_PROFILE"

	// Persistence errors
	ErrCodeDecode  Code = "DECODE_FAILED"
	ErrCodeStorage Code = "STORAGE_ERROR"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// CallerFault reports whether errors with this code are caused by what the
// caller supplied (a bad flag, file, request body or profile name) rather
// than by the environment.
func (c Code) CallerFault() bool {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidScene,
		ErrCodeInvalidProfile, ErrCodeDecode, ErrCodeFileNotFound:
		return true
	}
	return false
}

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

// UserMessage returns the error without its code prefix, for printing to
// a terminal. Causes are kept because they usually name the bad value.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + UserMessage(e.Cause)
	}
	return e.Message
}

// Retryable reports whether err may succeed when repeated: storage
// failures are, everything the caller got wrong is not.
func Retryable(err error) bool {
	return Is(err, ErrCodeStorage)
}

// Exit codes returned by the CLI.
const (
	ExitFailure = 1 // unexpected or environmental failure
	ExitUsage   = 2 // the caller supplied something invalid
	ExitStorage = 3 // the profile store could not be reached or written
)

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	code := GetCode(err)
	switch {
	case code.CallerFault():
		return ExitUsage
	case code == ErrCodeStorage:
		return ExitStorage
	}
	return ExitFailure
}
