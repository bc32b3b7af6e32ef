package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the panel reads out of a backend access token.
type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// PeekClaims decodes an access token without verifying it. The backend owns the signing key;
// the gateway only needs the user id and expiry for display and session checks.
func PeekClaims(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Expired reports whether the claims carry an expiry that is already in the past.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.After(c.ExpiresAt.Time)
}
