package utils

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// AccessTokenTTL reads the exp claim from a backend-issued access token and
// returns how long it remains valid. The token is decoded without signature
// verification: the backend is the authority and rejects bad tokens with 401;
// the claim is only used to size the console session's TTL. Tokens without a
// usable expiry fall back to SessionFallbackTTL.
func AccessTokenTTL(access string) time.Duration {
	claims := jwt.MapClaims{}
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(access, claims); err != nil {
		return SessionFallbackTTL
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return SessionFallbackTTL
	}
	ttl := time.Until(time.Unix(int64(exp), 0))
	if ttl <= 0 {
		return SessionFallbackTTL
	}
	return ttl
}
