package credential

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ValidShape reports whether token may be sent as a bearer credential: it must
// be present, not a stringified null/undefined, and have exactly three
// dot-separated segments. The signature is never checked here.
func ValidShape(token string) bool {
	if !Present(token) {
		return false
	}
	return len(strings.Split(token, ".")) == 3
}

// Present reports whether a stored token value counts as set at all.
func Present(token string) bool {
	return token != "" && token != "undefined" && token != "null"
}

// ExpiresAt reads the exp claim without verifying the token. ok is false
// when the token is not a parseable JWT or carries no expiry.
func ExpiresAt(token string) (exp time.Time, ok bool) {
	if !ValidShape(token) {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
