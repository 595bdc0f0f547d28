// Package auth verifies bearer tokens against the external identity claim.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/RiikenJobstack/jobstackParser/internal/common"
)

// Claims are the token claims the service cares about. UserID must resolve
// to an existing user record before the pipeline runs.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Verifier validates signed tokens with a shared HMAC secret.
type Verifier struct {
	secret    []byte
	algorithm string
}

func NewVerifier(secret, algorithm string) *Verifier {
	if algorithm == "" {
		algorithm = "HS256"
	}
	return &Verifier{secret: []byte(secret), algorithm: algorithm}
}

// Verify parses and validates the token (signature and expiry) and returns
// its claims. Failures wrap common.ErrUnauthorized.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != v.algorithm {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{v.algorithm}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: token is not valid", common.ErrUnauthorized)
	}
	return claims, nil
}
