package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestQRTokenRoundTrip(t *testing.T) {
	token, expiresAt, err := GenerateQRToken(42, time.Minute)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 2*time.Second)

	claims, err := ParseQRToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.VenueID)
}

func TestQRTokenDefaultTTL(t *testing.T) {
	_, expiresAt, err := GenerateQRToken(7, 0)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultQRTokenTTL), expiresAt, 2*time.Second)
}

func TestQRTokenExpired(t *testing.T) {
	token, _, err := GenerateQRToken(42, -time.Minute)
	assert.NoError(t, err)

	_, err = ParseQRToken(token)
	assert.ErrorIs(t, err, ErrQRTokenExpired)
}

func TestQRTokenBadSignature(t *testing.T) {
	claims := &QRClaims{
		VenueID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("not-the-venue-secret"))
	assert.NoError(t, err)

	_, err = ParseQRToken(forged)
	assert.ErrorIs(t, err, ErrQRTokenInvalid)
}

func TestQRTokenGarbage(t *testing.T) {
	_, err := ParseQRToken("zzz.zzz.zzz")
	assert.ErrorIs(t, err, ErrQRTokenInvalid)

	_, err = ParseQRToken("")
	assert.ErrorIs(t, err, ErrQRTokenInvalid)
}

func TestAuthTokenRejectedAsQRToken(t *testing.T) {
	// auth and clock tokens use different secrets; one must never parse as
	// the other
	authToken, err := GenerateToken(1, "worker")
	assert.NoError(t, err)

	_, err = ParseQRToken(authToken)
	assert.ErrorIs(t, err, ErrQRTokenInvalid)
}
