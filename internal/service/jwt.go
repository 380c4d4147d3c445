package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether the bearer token is a JWT whose exp claim is
// provably in the past. The signature is not checked; the backend remains
// the authority on validity. Tokens that don't parse as JWTs, or carry no
// exp claim, are treated as opaque and reported as not expired.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(now)
}
