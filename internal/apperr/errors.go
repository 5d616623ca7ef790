// Package apperr carries the error taxonomy shared by the access gate,
// services and HTTP handlers.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error code returned alongside every error message.
type Code string

const (
	CodeUnauthenticated   Code = "UNAUTHENTICATED"
	CodeInvalidCredential Code = "INVALID_CREDENTIAL"
	CodeIdentityNotFound  Code = "IDENTITY_NOT_FOUND"
	CodeForbidden         Code = "FORBIDDEN"
	CodeValidation        Code = "VALIDATION"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeInternal          Code = "INTERNAL"
)

// HTTPStatus returns the status code a response for c carries.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeInvalidCredential, CodeForbidden:
		return http.StatusForbidden
	case CodeIdentityNotFound, CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

var (
	ErrUnauthenticated   = New(CodeUnauthenticated, "authentication required")
	ErrInvalidCredential = New(CodeInvalidCredential, "invalid or expired token")
	ErrIdentityNotFound  = New(CodeIdentityNotFound, "user not found")
	ErrForbidden         = New(CodeForbidden, "forbidden")
)

func Validation(message string) *Error { return New(CodeValidation, message) }
func NotFound(message string) *Error   { return New(CodeNotFound, message) }
func Conflict(message string) *Error   { return New(CodeConflict, message) }
func Forbidden(message string) *Error  { return New(CodeForbidden, message) }

func Internal(message string, cause error) *Error {
	return Wrap(CodeInternal, message, cause)
}

// CodeOf reports the code carried by err, or CodeInternal when err is not an *Error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// PublicMessage returns the text safe to send to a client. Internal causes
// are never exposed.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Code != CodeInternal {
		return appErr.Message
	}
	return "internal server error"
}
