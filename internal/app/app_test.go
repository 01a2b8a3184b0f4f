package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestSetup_AppliesOverrides(t *testing.T) {
	path := writeConfig(t, `
base_url = "https://file.example.com"
theme = "Kanagawa"
log_file = "-"
toast_seconds = 5
`)

	env, err := Setup(Options{ConfigPath: path, BaseURL: "http://localhost:9999/ignored", LogLevel: "DEBUG"})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	defer env.Close()

	if got := env.Client.BaseURL(); got != "http://localhost:9999" {
		t.Fatalf("BaseURL = %q, want http://localhost:9999", got)
	}
	if env.Config.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want Kanagawa", env.Config.Theme)
	}
	if env.Config.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", env.Config.LogLevel)
	}
	if env.Config.ToastDuration != 5*time.Second {
		t.Fatalf("ToastDuration = %v, want 5s", env.Config.ToastDuration)
	}
}

func TestSetup_RejectsBadLogLevel(t *testing.T) {
	path := writeConfig(t, `log_file = "-"`)

	_, err := Setup(Options{ConfigPath: path, LogLevel: "loud"})
	if err == nil || !strings.Contains(err.Error(), "log level") {
		t.Fatalf("Setup error = %v, want log level error", err)
	}
}

func TestSetup_WritesLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "nested", "shelf.log")
	path := writeConfig(t, "log_file = \""+filepath.ToSlash(logPath)+"\"\n")

	env, err := Setup(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	env.Logger.Info("hello")
	if err := env.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log = %q, want hello entry", data)
	}
}

func TestSetup_InvalidBaseURL(t *testing.T) {
	path := writeConfig(t, `log_file = "-"`)

	if _, err := Setup(Options{ConfigPath: path, BaseURL: "http://"}); err == nil {
		t.Fatal("Setup with hostless base URL succeeded, want error")
	}
}

func TestNewStoreStartsLoading(t *testing.T) {
	path := writeConfig(t, `log_file = "-"`)
	env, err := Setup(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	defer env.Close()

	store := env.NewStore(nil)
	if snap := store.Snapshot(); !snap.Loading || len(snap.Objects) != 0 {
		t.Fatalf("new store snapshot = %+v, want loading and empty", snap)
	}
}
