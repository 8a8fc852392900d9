// Package config loads flock's settings from a TOML file, an optional .env
// file and FLOCK_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings needed to reach the social API.
type Config struct {
	APIURL      string
	Token       string
	UserID      string
	LogDir      string
	LogLevel    string
	PollSeconds int
}

const (
	defaultConfigPath  = "~/.config/flock/config.toml"
	defaultLogDir      = "~/.local/share/flock/logs"
	defaultAPIURL      = "http://127.0.0.1:5000"
	defaultLogLevel    = "info"
	defaultPollSeconds = 30
	minPollSeconds     = 5
)

// Environment overrides.
const (
	EnvAPIURL   = "FLOCK_API_URL"
	EnvToken    = "FLOCK_TOKEN"
	EnvUserID   = "FLOCK_USER_ID"
	EnvLogLevel = "FLOCK_LOG_LEVEL"
)

// LoadDotEnv exports the variables in path (".env" when empty) into the
// process environment without overriding existing ones. A missing file is
// not an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load parses the config file at path (the default location when empty),
// falling back to defaults when it is missing, then applies environment
// overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:      defaultAPIURL,
		LogDir:      mustExpand(defaultLogDir),
		LogLevel:    defaultLogLevel,
		PollSeconds: defaultPollSeconds,
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := cfg.parse(file); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) parse(r io.Reader) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL      string `toml:"api_url"`
		Token       string `toml:"token"`
		UserID      string `toml:"user_id"`
		LogDir      string `toml:"log_dir"`
		LogLevel    string `toml:"log_level"`
		PollSeconds int    `toml:"poll_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	c.Token = strings.TrimSpace(raw.Token)
	c.UserID = strings.TrimSpace(raw.UserID)
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		c.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if raw.PollSeconds > 0 {
		c.PollSeconds = max(raw.PollSeconds, minPollSeconds)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		c.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvUserID)); v != "" {
		c.UserID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

// PollInterval is the background refresh period.
func (c Config) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return defaultPollSeconds * time.Second
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// LogPath returns the path of flock's own log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return filepath.Join(mustExpand(defaultLogDir), "flock.log")
	}
	return filepath.Join(c.LogDir, "flock.log")
}

// String describes the config without the token.
func (c Config) String() string {
	token := "unset"
	if c.Token != "" {
		token = "set (" + strconv.Itoa(len(c.Token)) + " chars)"
	}
	return fmt.Sprintf("api_url=%s user_id=%s token=%s log_dir=%s", c.APIURL, c.UserID, token, c.LogDir)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath trims path, expands a leading ~ and makes it absolute.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
