package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := NotFound("Device")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))

	wrapped := fmt.Errorf("listing: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestFromClassifiesUnknownAsInternal(t *testing.T) {
	cause := errors.New("disk I/O error")
	appErr := From(cause)

	assert.Equal(t, CodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, cause)
	assert.Equal(t, "Internal server error", appErr.PublicMessage())
	assert.Nil(t, From(nil))

	known := Forbidden("nope")
	assert.Same(t, known, From(fmt.Errorf("ctx: %w", known)))
}

func TestInvalidChoiceMessage(t *testing.T) {
	err := InvalidChoice("status", []string{"active", "inactive"})
	assert.Equal(t, "Invalid status. Must be one of: active, inactive", err.PublicMessage())
	assert.Equal(t, CodeInvalidArgument, err.Code)
}

func TestCodeMappings(t *testing.T) {
	cases := []struct {
		code     Code
		httpCode int
		grpcCode codes.Code
	}{
		{CodeDuplicateEmail, http.StatusBadRequest, codes.AlreadyExists},
		{CodeInvalidCredentials, http.StatusUnauthorized, codes.Unauthenticated},
		{CodeUnauthorized, http.StatusUnauthorized, codes.Unauthenticated},
		{CodeNotFound, http.StatusNotFound, codes.NotFound},
		{CodeForbidden, http.StatusForbidden, codes.PermissionDenied},
		{CodeInvalidArgument, http.StatusBadRequest, codes.InvalidArgument},
		{CodeRateLimited, http.StatusTooManyRequests, codes.ResourceExhausted},
		{CodeInternal, http.StatusInternalServerError, codes.Internal},
	}

	for _, c := range cases {
		assert.Equal(t, c.httpCode, c.code.HTTPStatus(), string(c.code))
		assert.Equal(t, c.grpcCode, c.code.GRPCCode(), string(c.code))
	}
}
