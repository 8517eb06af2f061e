package apperrors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInternal           Code = "INTERNAL"
	CodeDuplicateEmail     Code = "DUPLICATE_EMAIL"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeForbidden          Code = "FORBIDDEN"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeRateLimited        Code = "RATE_LIMITED"
)

func (c Code) HTTPStatus() int {
	switch c {
	case CodeDuplicateEmail, CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeInvalidCredentials, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeDuplicateEmail:
		return codes.AlreadyExists
	case CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeInvalidCredentials, CodeUnauthorized:
		return codes.Unauthenticated
	case CodeNotFound:
		return codes.NotFound
	case CodeForbidden:
		return codes.PermissionDenied
	case CodeRateLimited:
		return codes.ResourceExhausted
	default:
		return codes.Internal
	}
}
