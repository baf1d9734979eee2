// Package clierr defines structured error types shared by the CLI, the TUI
// and the HTTP API. Errors carry a machine-readable code, a human-readable
// message, and optional details.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error code constants. Uppercase, underscore-separated, stable across minor versions.
const (
	TaskNotFound       = "TASK_NOT_FOUND"
	ConfigNotFound     = "CONFIG_NOT_FOUND"
	ConfigExists       = "CONFIG_ALREADY_EXISTS"
	InvalidInput       = "INVALID_INPUT"
	InvalidTitle       = "INVALID_TITLE"
	InvalidStatus      = "INVALID_STATUS"
	InvalidPriority    = "INVALID_PRIORITY"
	InvalidSort        = "INVALID_SORT"
	InvalidDate        = "INVALID_DATE"
	InvalidTaskID      = "INVALID_TASK_ID"
	NoChanges          = "NO_CHANGES"
	StatusConflict     = "STATUS_CONFLICT"
	ConfirmationReq    = "CONFIRMATION_REQUIRED"
	InvalidEmail       = "INVALID_EMAIL"
	WeakPassword       = "WEAK_PASSWORD"
	EmailTaken         = "EMAIL_TAKEN"
	InvalidCredentials = "INVALID_CREDENTIALS"
	NotLoggedIn        = "NOT_LOGGED_IN"
	Forbidden          = "FORBIDDEN"
	InternalError      = "INTERNAL_ERROR"
)

// Error represents a structured error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// CodeOf returns the code of the first *Error in err's chain, or
// InternalError when there is none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return InternalError
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// SilentError signals an exit code without additional output.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
