// Package errors defines the structured error type returned by the HTTP surface.
// Error codes follow the OAuth 2.0 style ("invalid_request", "server_error") so that
// every JSON error body has the same shape.
package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode is a machine-readable error identifier
type ErrorCode string

const (
	ErrCodeInvalidRequest         ErrorCode = "invalid_request"
	ErrCodeNotFound               ErrorCode = "not_found"
	ErrCodeServerError            ErrorCode = "server_error"
	ErrCodeTemporarilyUnavailable ErrorCode = "temporarily_unavailable"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// AppError represents a structured error with additional metadata
type AppError interface {
	error

	// Code returns the error code
	Code() ErrorCode

	// HTTPStatus returns the HTTP status code
	HTTPStatus() int

	// Description returns a human-readable description
	Description() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) AppError
}

// ================================================================================
// Base Error Implementation
// ================================================================================

type baseError struct {
	code        ErrorCode
	httpStatus  int
	description string
	cause       error
}

// Error implements the error interface
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.description, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.description)
}

func (e *baseError) Code() ErrorCode     { return e.code }
func (e *baseError) HTTPStatus() int     { return e.httpStatus }
func (e *baseError) Description() string { return e.description }
func (e *baseError) Unwrap() error       { return e.cause }

// WithCause returns a copy of the error with cause attached, leaving the receiver untouched.
func (e *baseError) WithCause(cause error) AppError {
	cp := *e
	cp.cause = cause
	return &cp
}

// Is matches two AppErrors by code.
func (e *baseError) Is(target error) bool {
	t, ok := target.(*baseError)
	if !ok {
		return false
	}
	return t.code == e.code
}

// NewError creates a new AppError with the specified parameters
func NewError(code ErrorCode, httpStatus int, description string) AppError {
	return &baseError{
		code:        code,
		httpStatus:  httpStatus,
		description: description,
	}
}

// ================================================================================
// Predefined Error Constructors
// ================================================================================

// ErrInvalidRequest creates an invalid_request error
func ErrInvalidRequest(description string) AppError {
	return NewError(ErrCodeInvalidRequest, http.StatusBadRequest, description)
}

// ErrNotFound creates a not_found error
func ErrNotFound(description string) AppError {
	return NewError(ErrCodeNotFound, http.StatusNotFound, description)
}

// ErrServerError creates a server_error error
func ErrServerError(description string) AppError {
	return NewError(ErrCodeServerError, http.StatusInternalServerError, description)
}

// ErrServiceUnavailable creates a temporarily_unavailable error
func ErrServiceUnavailable(description string) AppError {
	return NewError(ErrCodeTemporarilyUnavailable, http.StatusServiceUnavailable, description)
}

// ErrInternalServer is the generic response for recovered panics.
var ErrInternalServer = ErrServerError("The server encountered an unexpected condition that prevented it from fulfilling the request.")

// ================================================================================
// Helpers
// ================================================================================

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (AppError, bool) {
	var appErr AppError
	if goerrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatusOf returns the HTTP status carried by err, or 500.
func HTTPStatusOf(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
