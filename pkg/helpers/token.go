package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims the backend embeds in access tokens.
type SessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

var ErrNoExpiry = errors.New("token has no expiry claim")

// DecodeSessionClaims decodes token claims without signature verification.
// The client never holds the signing secret; the decoded expiry is used for
// display and logging only, never to grant access.
func DecodeSessionClaims(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// TokenExpiry extracts the expiry timestamp from an access token.
func TokenExpiry(token string) (time.Time, error) {
	claims, err := DecodeSessionClaims(token)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}
