package api

import (
	"errors"
	"fmt"
	"strings"
)

// Error is an application-level failure: the server answered with
// success:false. The HTTP status is informational only.
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request rejected (status %d)", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// TransportError covers everything that never produced a readable envelope:
// unreachable host, timeouts, non-2xx responses with an unparseable body.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Message returns the text shown to the user for err: the server message for
// application errors, fallback for everything else.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		if msg := strings.TrimSpace(appErr.Message); msg != "" {
			return msg
		}
	}
	return fallback
}

// IsApplication reports whether err carries a server-provided rejection.
func IsApplication(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr)
}
