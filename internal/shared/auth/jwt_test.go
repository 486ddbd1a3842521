package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	s, err := NewSigner("s3cret", "dev")
	require.NoError(t, err)

	token, err := s.Sign("u1", "u1@example.com", "User One")
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "u1@example.com", claims.Email)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	a, _ := NewSigner("a", "dev")
	b, _ := NewSigner("b", "dev")
	token, err := a.Sign("u1", "", "")
	require.NoError(t, err)

	_, err = b.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	s, _ := NewSigner("s3cret", "dev")
	issued := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }
	token, err := s.Sign("u1", "", "")
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(48 * time.Hour) }
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	s, _ := NewSigner("s3cret", "dev")
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSignerRequiresSecretInProduction(t *testing.T) {
	_, err := NewSigner("", "production")
	assert.Error(t, err)
}
