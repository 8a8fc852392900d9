package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIURL, EnvToken, EnvUserID, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	wantLogDir, err := ExpandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("ExpandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.LogLevel != "info" || cfg.PollSeconds != defaultPollSeconds {
		t.Fatalf("LogLevel/PollSeconds = %q/%d", cfg.LogLevel, cfg.PollSeconds)
	}
	if cfg.Token != "" || cfg.UserID != "" {
		t.Fatalf("Token/UserID should be empty, got %q/%q", cfg.Token, cfg.UserID)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := writeConfig(t, `
api_url = "  https://social.example.com  "
token = " abc.def.ghi "
user_id = " u1 "
log_dir = "  ~/.flock/logs  "
log_level = "DEBUG"
poll_seconds = 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://social.example.com" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Token != "abc.def.ghi" || cfg.UserID != "u1" {
		t.Fatalf("Token/UserID = %q/%q", cfg.Token, cfg.UserID)
	}
	if !strings.HasPrefix(cfg.LogDir, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.PollSeconds != minPollSeconds {
		t.Fatalf("PollSeconds = %d, want clamp to %d", cfg.PollSeconds, minPollSeconds)
	}
	if cfg.LogPath() != filepath.Join(cfg.LogDir, "flock.log") {
		t.Fatalf("LogPath = %q", cfg.LogPath())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv(EnvAPIURL, "http://override:9000")
	t.Setenv(EnvToken, "envtoken")
	t.Setenv(EnvLogLevel, "Warn")

	cfg, err := Load(writeConfig(t, `
api_url = "http://file:5000"
token = "filetoken"
user_id = "u-file"
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://override:9000" || cfg.Token != "envtoken" {
		t.Fatalf("env did not override: %+v", cfg)
	}
	if cfg.UserID != "u-file" {
		t.Fatalf("UserID = %q, want file value when env unset", cfg.UserID)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `api_url = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("FLOCK_USER_ID=u-dotenv\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	// t.Setenv registers cleanup; godotenv does not override non-empty vars.
	t.Setenv(EnvUserID, "")
	os.Unsetenv(EnvUserID)
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(EnvUserID); got != "u-dotenv" {
		t.Fatalf("%s = %q, want u-dotenv", EnvUserID, got)
	}
}

func TestPollInterval(t *testing.T) {
	if got := (Config{}).PollInterval(); got != defaultPollSeconds*time.Second {
		t.Fatalf("PollInterval = %v", got)
	}
	if got := (Config{PollSeconds: 12}).PollInterval(); got != 12*time.Second {
		t.Fatalf("PollInterval = %v", got)
	}
}

func TestString_HidesToken(t *testing.T) {
	s := Config{APIURL: "http://x", Token: "secret-token"}.String()
	if strings.Contains(s, "secret-token") {
		t.Fatalf("String leaked token: %s", s)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/flock.log")) {
		t.Fatalf("LogPath = %q, want it to end with /flock.log", got)
	}
}
