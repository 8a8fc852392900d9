// Package auth identifies the acting user for optimistic updates.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// ErrNoUser is returned when neither an explicit id nor a token claim names
// the acting user.
var ErrNoUser = errors.New("auth: no user id in config or token")

// userClaims are checked in order.
var userClaims = []string{"id", "userId", "user_id", "_id", "sub"}

// Session is the authenticated viewer. The token is presented to the API;
// the client never verifies it.
type Session struct {
	Token  string
	UserID string
}

// NewSession returns a session for token. An empty userID is read from the
// token's claims without verifying the signature.
func NewSession(token, userID string) (Session, error) {
	token = strings.TrimSpace(token)
	userID = strings.TrimSpace(userID)
	if userID != "" {
		return Session{Token: token, UserID: userID}, nil
	}
	if token == "" {
		return Session{}, ErrNoUser
	}
	id, err := UserIDFromToken(token)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, UserID: id}, nil
}

// UserIDFromToken extracts the user id claim from an unverified JWT.
func UserIDFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	for _, key := range userClaims {
		if id := claimString(claims[key]); id != "" {
			return id, nil
		}
	}
	return "", ErrNoUser
}

// Authenticated reports whether the session can perform optimistic writes.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

func claimString(v any) string {
	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
