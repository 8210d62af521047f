package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLeeway absorbs clock drift between the token issuer and this service.
const tokenLeeway = 30 * time.Second

// ErrTokenSubjectMissing is returned for a verified token that names no user.
var ErrTokenSubjectMissing = errors.New("token has no subject")

// ParseBearerToken verifies an HS256 access token and returns the user id carried in its
// subject. Tokens without an expiry are rejected.
func ParseBearerToken(tokenString string, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(tokenLeeway),
	)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrTokenSubjectMissing
	}
	return claims.Subject, nil
}
