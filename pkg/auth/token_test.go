package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndVerify(t *testing.T) {
	userID := uuid.NewString()
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	m := NewTokenManager("secret", 30*time.Minute).WithClock(fixedClock(issuedAt))
	token, err := m.Issue(userID)
	require.NoError(t, err)

	subject, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, subject)

	// still valid just before expiry
	m.WithClock(fixedClock(issuedAt.Add(29 * time.Minute)))
	_, err = m.Verify(token)
	assert.NoError(t, err)
}

func TestVerifyExpired(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewTokenManager("secret", 30*time.Minute).WithClock(fixedClock(issuedAt))

	token, err := m.Issue(uuid.NewString())
	require.NoError(t, err)

	m.WithClock(fixedClock(issuedAt.Add(31 * time.Minute)))
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_EdgeCases(t *testing.T) {
	m := NewTokenManager("secret", 30*time.Minute)

	{
		// signed with another secret
		other := NewTokenManager("other-secret", 30*time.Minute)
		token, err := other.Issue(uuid.NewString())
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}

	{
		// garbage
		_, err := m.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	}

	{
		// no expiry claim
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject: uuid.NewString(),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}

	{
		// alg none is refused
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}

	{
		// empty subject
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}

	{
		_, err := m.Issue("")
		assert.Error(t, err)
	}
}

func TestTokenIsThreePartJWT(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	token, err := m.Issue(uuid.NewString())
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
	assert.Equal(t, time.Minute, m.TTL())
}
