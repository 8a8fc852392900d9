package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// refresher is the subset of the coordinator the poller drives.
type refresher interface {
	FetchBookmarks(ctx context.Context) error
	FetchUserConnections(ctx context.Context) error
}

// StartPoller refreshes bookmarks and the viewer's network in the
// background until ctx is cancelled. Consecutive failures back off
// exponentially. It returns immediately.
func StartPoller(ctx context.Context, r refresher, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("poller")

	go func() {
		failures := 0
		for {
			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			if err := refresh(ctx, r); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				logger.Warn("background refresh failed",
					zap.Int("failures", failures),
					zap.Duration("next", calculateBackoff(failures, interval)),
					zap.Error(err))
				continue
			}
			if failures > 0 {
				logger.Info("background refresh recovered", zap.Int("after_failures", failures))
			}
			failures = 0
		}
	}()
}

func refresh(ctx context.Context, r refresher) error {
	return errors.Join(
		r.FetchBookmarks(ctx),
		r.FetchUserConnections(ctx),
	)
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
