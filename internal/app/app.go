// Package app wires configuration, logging, the API client, the store and
// the UI together.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/flock/internal/api"
	"github.com/five82/flock/internal/auth"
	"github.com/five82/flock/internal/config"
	"github.com/five82/flock/internal/dispatch"
	"github.com/five82/flock/internal/logging"
	"github.com/five82/flock/internal/notify"
	"github.com/five82/flock/internal/prefs"
	"github.com/five82/flock/internal/state"
	"github.com/five82/flock/internal/ui"
)

// Options configure the application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/flock/prefs.toml
	EnvPath    string // empty uses ./.env
	PollEvery  int    // seconds; zero uses the config value
}

const initialLoadTimeout = 15 * time.Second

// Run boots the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if err := config.LoadDotEnv(opts.EnvPath); err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	userPrefs, _ := prefs.Load(opts.PrefsPath)

	logger, err := logging.New(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting", zap.Stringer("config", cfg))

	session, err := auth.NewSession(cfg.Token, cfg.UserID)
	if err != nil {
		if !errors.Is(err, auth.ErrNoUser) {
			logger.Warn("token not readable", zap.Error(err))
		}
		logger.Warn("no user id; likes are disabled")
		session = auth.Session{Token: cfg.Token}
	}

	client, err := api.NewClient(cfg.APIURL, session.Token, logger)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := &state.Store{}
	notices := notify.NewCenter(notify.DefaultTTL)
	coord := dispatch.New(client, store, notices, session, logger)

	interval := cfg.PollInterval()
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	initialLoad(ctx, coord, logger)
	StartPoller(ctx, coord, interval, logger)

	return ui.Run(ui.Options{
		Context:     ctx,
		Coordinator: coord,
		Notices:     notices,
		Prefs:       userPrefs,
		PrefsPath:   opts.PrefsPath,
		LogPath:     cfg.LogPath(),
		Logger:      logger,
	})
}

// loader is the subset of the coordinator used to populate the store.
type loader interface {
	FetchFeed(ctx context.Context, page int) error
	FetchBookmarks(ctx context.Context) error
	FetchPostConnections(ctx context.Context) error
	FetchUserConnections(ctx context.Context) error
}

// initialLoad fills the store before the UI starts. Failures are already
// recorded in the store and shown by the UI, so they are only logged.
func initialLoad(ctx context.Context, l loader, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, initialLoadTimeout)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error { return l.FetchFeed(ctx, 1) })
	g.Go(func() error { return l.FetchBookmarks(ctx) })
	g.Go(func() error { return l.FetchPostConnections(ctx) })
	g.Go(func() error { return l.FetchUserConnections(ctx) })
	if err := g.Wait(); err != nil {
		logger.Warn("initial load incomplete", zap.Error(err))
	}
}
