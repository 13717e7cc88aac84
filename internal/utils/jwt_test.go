package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	secret := "super-secret"

	tok, err := GenerateJWT(42, "alice", secret)
	require.NoError(t, err)

	claims, err := ParseJWT(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	// Fixed 1-hour validity window
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(TokenValidity), claims.ExpiresAt.Time, time.Minute)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	tok, err := GenerateJWT(1, "bob", "right-secret")
	require.NoError(t, err)

	_, err = ParseJWT(tok, "wrong-secret")
	assert.Error(t, err)
}

func TestParseJWT_Malformed(t *testing.T) {
	_, err := ParseJWT("not.a.jwt", "secret")
	assert.Error(t, err)
}

func TestParseJWT_Expired(t *testing.T) {
	secret := "secret"
	// Hand-craft a token that expired a minute ago
	claims := Claims{
		UserID:   7,
		Username: "carol",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ParseJWT(tok, secret)
	assert.Error(t, err)
}
