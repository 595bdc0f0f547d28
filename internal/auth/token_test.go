package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/RiikenJobstack/jobstackParser/internal/common"
)

func sign(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestVerifyValidToken(t *testing.T) {
	v := NewVerifier("secret", "HS256")
	token := sign(t, jwt.SigningMethodHS256, "secret", jwt.MapClaims{
		"userId": "user-1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewVerifier("secret", "")
	token := sign(t, jwt.SigningMethodHS256, "secret", jwt.MapClaims{
		"userId": "user-1",
		"exp":    time.Now().Add(-time.Minute).Unix(),
	})

	_, err := v.Verify(token)
	if err == nil {
		t.Fatal("expected error for expired token")
	}
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Errorf("error %v does not wrap common.ErrUnauthorized", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	v := NewVerifier("secret", "")
	token := sign(t, jwt.SigningMethodHS256, "other-secret", jwt.MapClaims{
		"userId": "user-1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	if _, err := v.Verify(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestVerifyRejectsWrongAlgorithm(t *testing.T) {
	v := NewVerifier("secret", "HS256")
	token := sign(t, jwt.SigningMethodHS512, "secret", jwt.MapClaims{
		"userId": "user-1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	if _, err := v.Verify(token); err == nil {
		t.Error("expected error for token signed with a non-allowed algorithm")
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	v := NewVerifier("secret", "")
	if _, err := v.Verify("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
