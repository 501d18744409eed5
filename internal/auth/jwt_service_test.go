package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateAccessToken("ich_123", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ich_123", claims.CardholderID)
	assert.Equal(t, "ich_123", claims.Subject)
}

func TestJWTService_RejectsOtherSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateAccessToken("ich_123", time.Hour)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret")
	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	token, err := svc.GenerateAccessToken("ich_123", time.Hour)
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_RequiresCardholder(t *testing.T) {
	_, err := NewJWTService("test-secret").GenerateAccessToken("", time.Hour)
	assert.Error(t, err)
}
