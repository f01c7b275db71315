package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the framework.
type ErrorCode string

// Learning error codes
const (
	ErrInvalidObservation ErrorCode = "INVALID_OBSERVATION"
	ErrInvalidAction      ErrorCode = "INVALID_ACTION"
	ErrCorruptState       ErrorCode = "CORRUPT_PERSISTED_STATE"
)

// Prompt error codes
const (
	ErrTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrMissingVariables ErrorCode = "MISSING_VARIABLES"
)

// Store and agent error codes
const (
	ErrStoreClosed    ErrorCode = "STORE_CLOSED"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrAgentNotFound  ErrorCode = "AGENT_NOT_FOUND"
	ErrExecutorNotSet ErrorCode = "EXECUTOR_NOT_SET"
)

// Error represents a structured error with code, message, and cause.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf creates a new Error with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// GetErrorCode extracts the error code from an error, unwrapping as
// needed. Plain errors yield an empty code.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}
