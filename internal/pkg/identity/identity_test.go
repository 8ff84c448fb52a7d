package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-session-secret"

func TestVerifySessionToken(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		token, err := GenerateSessionToken("sub-123", "Asha Kulkarni", "asha@example.com", "voter", testSecret, time.Hour)
		require.NoError(t, err)

		claims, err := VerifySessionToken(token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "sub-123", claims.Subject)
		assert.Equal(t, "Asha Kulkarni", claims.Name)
		assert.Equal(t, "asha@example.com", claims.Email)
		assert.Equal(t, "voter", claims.Role)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := GenerateSessionToken("sub-123", "Asha", "asha@example.com", "voter", testSecret, -time.Minute)
		require.NoError(t, err)

		_, err = VerifySessionToken(token, testSecret)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateSessionToken("sub-123", "Asha", "asha@example.com", "voter", testSecret, time.Hour)
		require.NoError(t, err)

		_, err = VerifySessionToken(token, "another-secret")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := VerifySessionToken("not-a-token", testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := SessionClaims{
			Name: "No Subject",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = VerifySessionToken(token, testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-123"},
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = VerifySessionToken(signed, testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}
