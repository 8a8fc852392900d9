// Package dispatch drives API requests through the store. Each operation
// dispatches a pending action, calls the backend and then dispatches the
// fulfilled or rejected action. Likes and bookmark toggles are written
// optimistically and restored when the request fails.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/five82/flock/internal/api"
	"github.com/five82/flock/internal/auth"
	"github.com/five82/flock/internal/notify"
	"github.com/five82/flock/internal/state"
)

// Notifier receives user-visible messages.
type Notifier interface {
	Push(level notify.Level, message string) (notify.Notice, bool)
}

type discard struct{}

func (discard) Push(notify.Level, string) (notify.Notice, bool) { return notify.Notice{}, false }

// ErrNoSession is returned by optimistic operations when no user id is known.
var ErrNoSession = errors.New("dispatch: no signed-in user")

// ValidationError rejects an input before any request or state change.
type ValidationError struct {
	Op      string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Coordinator issues requests and records their lifecycle in the store.
// Operations block until the request settles and are safe to call from
// multiple goroutines.
type Coordinator struct {
	api      api.Backend
	store    *state.Store
	notifier Notifier
	session  auth.Session
	logger   *zap.Logger
	validate *validator.Validate

	commentLikes ledger[bool]
	postLikes    ledger[bool]
	bookmarks    ledger[bookmarkFlag]
}

// New returns a Coordinator. A nil notifier or logger disables that output.
func New(backend api.Backend, store *state.Store, notifier Notifier, session auth.Session, logger *zap.Logger) *Coordinator {
	if notifier == nil {
		notifier = discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		api:      backend,
		store:    store,
		notifier: notifier,
		session:  session,
		logger:   logger.Named("dispatch"),
		validate: newValidator(),
	}
}

// Store returns the store the coordinator writes to.
func (c *Coordinator) Store() *state.Store { return c.store }

// Session returns the acting user.
func (c *Coordinator) Session() auth.Session { return c.session }

// reject records a failed request: it dispatches the rejected action built
// from the user-facing message, notifies and returns err unchanged.
func (c *Coordinator) reject(op, fallback string, err error, rejected func(message string) state.Action) error {
	msg := api.Message(err, fallback)
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	if errors.Is(err, context.Canceled) {
		c.logger.Debug("request canceled", fields...)
	} else if api.IsApplication(err) {
		c.logger.Info("request rejected", fields...)
	} else {
		c.logger.Warn("request failed", fields...)
	}
	if rejected != nil {
		c.store.Dispatch(rejected(msg))
	}
	c.notifier.Push(notify.LevelError, msg)
	return err
}

func (c *Coordinator) requireSession(op string) error {
	if c.session.Authenticated() {
		return nil
	}
	c.logger.Warn("optimistic write without user", zap.String("op", op))
	c.notifier.Push(notify.LevelError, "Sign in to continue")
	return ErrNoSession
}

func (c *Coordinator) invalid(op string, err error, messages map[string]string) error {
	msg := validationMessage(err, messages)
	c.logger.Debug("input rejected", zap.String("op", op), zap.Error(err))
	c.notifier.Push(notify.LevelError, msg)
	return &ValidationError{Op: op, Message: msg, Err: err}
}
