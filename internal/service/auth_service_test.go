package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	"github.com/noah-isme/campus-timetable-api/pkg/config"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims *models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(subject string) *models.JWTClaims {
	return &models.JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "campus-auth",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: testSecret, Issuer: "campus-auth"})

	claims, err := svc.ValidateToken(signToken(t, testSecret, validClaims("user-1")))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Identity())
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{Secret: testSecret, Issuer: "campus-auth"})

	expired := validClaims("user-1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims("user-1")
	wrongIssuer.Issuer = "someone-else"

	noExpiry := validClaims("user-1")
	noExpiry.ExpiresAt = nil

	cases := map[string]string{
		"wrong secret": signToken(t, "other-secret", validClaims("user-1")),
		"expired":      signToken(t, testSecret, expired),
		"wrong issuer": signToken(t, testSecret, wrongIssuer),
		"no expiry":    signToken(t, testSecret, noExpiry),
		"no subject":   signToken(t, testSecret, validClaims("")),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestAuthServiceRequiresSecret(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{})
	_, err := svc.ValidateToken("anything")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
