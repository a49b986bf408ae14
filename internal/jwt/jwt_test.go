package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("secret", 24*time.Hour)
	issued := time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, expiresAt, err := svc.GenerateToken("user-1", "real@x.com")
	require.NoError(t, err)
	assert.Equal(t, issued.Add(24*time.Hour), expiresAt)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "real@x.com", claims.Email)
}

func TestTokenExpiresAfterFixedWindow(t *testing.T) {
	svc := NewJWTService("secret", 24*time.Hour)
	issued := time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, _, err := svc.GenerateToken("user-1", "real@x.com")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(23 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(24*time.Hour + time.Second) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsForeignSignature(t *testing.T) {
	token, _, err := NewJWTService("other", time.Hour).GenerateToken("user-1", "real@x.com")
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsGarbage(t *testing.T) {
	_, err := NewJWTService("secret", time.Hour).ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
