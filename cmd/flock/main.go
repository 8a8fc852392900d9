package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/flock/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/flock/config.toml)")
	prefsPath := flag.String("prefs", "", "preferences file path (optional, defaults to ~/.config/flock/prefs.toml)")
	envPath := flag.String("env", "", "dotenv file loaded before the config (optional, defaults to ./.env)")
	pollSeconds := flag.Int("poll", 0, "background refresh interval in seconds (optional, defaults to the config value)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		EnvPath:    *envPath,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "flock: %v\n", err)
		return 1
	}
	return 0
}
