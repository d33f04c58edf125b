// Package auth reads what it can from the bearer token without verifying
// it. The service is the only party that can check the signature; the
// client only uses the claims to warn early about an expired token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned for tokens that are not a parsable JWT. Such
// tokens are still sent; the service decides whether they are valid.
var ErrNotJWT = errors.New("auth: token is not a JWT")

// TokenInfo holds the unverified registered claims of a token.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Expired reports whether the token's exp claim is at or before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Inspect parses token's claims without checking its signature.
func Inspect(token string) (TokenInfo, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %w", ErrNotJWT, err)
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	return info, nil
}

// Describe summarizes token for a status line.
func Describe(token string, now time.Time) string {
	if token == "" {
		return "no token"
	}
	info, err := Inspect(token)
	switch {
	case err != nil:
		return "token set"
	case info.Expired(now):
		return "token expired " + info.ExpiresAt.Local().Format("Jan 2 15:04")
	case info.Subject != "":
		return "signed in as " + info.Subject
	default:
		return "token set"
	}
}
