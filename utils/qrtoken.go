package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// QR clock tokens are short-lived HS256 credentials minted per venue. They
// are signed with their own secret so a leaked auth token can never be
// replayed as a clock credential (and vice versa).

var qrTokenSecret []byte

var (
	ErrQRTokenInvalid = errors.New("invalid qr token")
	ErrQRTokenExpired = errors.New("qr token expired")
)

const DefaultQRTokenTTL = 5 * time.Minute

func init() {
	secret := os.Getenv("QR_TOKEN_SECRET")
	if secret == "" {
		secret = "GigWorkQRDevSecret"
	}
	qrTokenSecret = []byte(secret)
}

type QRClaims struct {
	VenueID uint `json:"venue_id"`
	jwt.RegisteredClaims
}

// GenerateQRToken signs a clock credential for the venue, valid for ttl.
func GenerateQRToken(venueID uint, ttl time.Duration) (string, time.Time, error) {
	if ttl == 0 {
		ttl = DefaultQRTokenTTL
	}
	expiresAt := time.Now().Add(ttl)
	claims := &QRClaims{
		VenueID: venueID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "GigWorkApp",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(qrTokenSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseQRToken verifies the signature and expiry and returns the venue the
// token was minted for. Expiry is reported distinctly so callers can tell the
// worker to rescan rather than treating the code as forged.
func ParseQRToken(tokenString string) (*QRClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &QRClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrQRTokenInvalid
		}
		return qrTokenSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrQRTokenExpired
		}
		return nil, ErrQRTokenInvalid
	}

	claims, ok := token.Claims.(*QRClaims)
	if !ok || !token.Valid || claims.VenueID == 0 {
		return nil, ErrQRTokenInvalid
	}
	return claims, nil
}
