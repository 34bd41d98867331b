package utils

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	JwtKey = []byte("test-secret-key")

	token, err := GenerateJWT("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", claims.Subject)

	// expiry is 4 days out
	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	assert.InDelta(t, TokenTTL.Seconds(), ttl.Seconds(), 60)
}

func TestParseJWTRejectsBadSignature(t *testing.T) {
	JwtKey = []byte("test-secret-key")
	token, err := GenerateJWT("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	JwtKey = []byte("a-different-key")
	_, err = ParseJWT(token)
	assert.Error(t, err)
}

func TestParseJWTRejectsExpired(t *testing.T) {
	JwtKey = []byte("test-secret-key")

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   "507f1f77bcf86cd799439011",
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JwtKey)
	require.NoError(t, err)

	_, err = ParseJWT(expired)
	assert.Error(t, err)
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	JwtKey = []byte("test-secret-key")
	_, err := ParseJWT("not.a.token")
	assert.Error(t, err)
}
