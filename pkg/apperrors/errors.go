// Package apperrors holds the error taxonomy shared by the core and its transports.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a domain error carrying a code the transports map to a status.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// PublicMessage is safe to hand to a caller. Internal faults never expose their cause.
func (e *Error) PublicMessage() string {
	if e.Code == CodeInternal {
		return "Internal server error"
	}
	return e.Message
}

// Sentinels for errors.Is checks.
var (
	ErrInternal           = &Error{Code: CodeInternal}
	ErrDuplicateEmail     = &Error{Code: CodeDuplicateEmail}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized}
	ErrNotFound           = &Error{Code: CodeNotFound}
	ErrForbidden          = &Error{Code: CodeForbidden}
	ErrInvalidArgument    = &Error{Code: CodeInvalidArgument}
	ErrRateLimited        = &Error{Code: CodeRateLimited}
)

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func NotFound(what string) *Error {
	return New(CodeNotFound, what+" not found")
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

// InvalidChoice reports a value outside an enumerated set, listing the legal values.
func InvalidChoice(what string, legal []string) *Error {
	return New(CodeInvalidArgument, fmt.Sprintf("Invalid %s. Must be one of: %s", what, strings.Join(legal, ", ")))
}

// Internal wraps an unclassified storage or library failure.
func Internal(cause error) *Error {
	return Wrap(CodeInternal, "internal error", cause)
}

// From returns err as an *Error, classifying anything unknown as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
