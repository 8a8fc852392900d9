package auth

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v4"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestNewSessionPrefersExplicitUserID(t *testing.T) {
	s, err := NewSession(" tok ", " u-explicit ")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.UserID != "u-explicit" || s.Token != "tok" {
		t.Fatalf("session = %#v", s)
	}
	if !s.Authenticated() {
		t.Fatalf("Authenticated = false")
	}
}

func TestNewSessionReadsClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{"id", jwt.MapClaims{"id": "abc"}, "abc"},
		{"userId", jwt.MapClaims{"userId": "def"}, "def"},
		{"numeric user_id", jwt.MapClaims{"user_id": float64(42)}, "42"},
		{"sub fallback", jwt.MapClaims{"sub": "ghi"}, "ghi"},
		{"id wins over sub", jwt.MapClaims{"id": "first", "sub": "last"}, "first"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSession(signed(t, tt.claims), "")
			if err != nil {
				t.Fatalf("NewSession: %v", err)
			}
			if s.UserID != tt.want {
				t.Fatalf("UserID = %q, want %q", s.UserID, tt.want)
			}
		})
	}
}

func TestNewSessionErrors(t *testing.T) {
	if _, err := NewSession("", ""); !errors.Is(err, ErrNoUser) {
		t.Fatalf("empty token err = %v, want ErrNoUser", err)
	}
	if _, err := NewSession(signed(t, jwt.MapClaims{"role": "admin"}), ""); !errors.Is(err, ErrNoUser) {
		t.Fatalf("claimless token err = %v, want ErrNoUser", err)
	}
	if _, err := NewSession("not-a-jwt", ""); err == nil || errors.Is(err, ErrNoUser) {
		t.Fatalf("garbage token err = %v, want parse error", err)
	}
}
