package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/shelf/internal/logging"
)

// Config holds shelf's settings.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Theme             string
	LogFile           string
	LogLevel          string
	SearchDebounce    time.Duration
	ToastDuration     time.Duration
}

const (
	defaultConfigPath     = "~/.config/shelf/config.toml"
	defaultLogFile        = "~/.local/state/shelf/shelf.log"
	defaultBaseURL        = "https://api.restful-api.dev"
	defaultTimeout        = 10 * time.Second
	defaultTheme          = "Nightfox"
	defaultLogLevel       = "info"
	defaultSearchDebounce = 300 * time.Millisecond
	defaultToastDuration  = 3 * time.Second
)

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		BaseURL:        defaultBaseURL,
		Timeout:        defaultTimeout,
		Theme:          defaultTheme,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		SearchDebounce: defaultSearchDebounce,
		ToastDuration:  defaultToastDuration,
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

// Load reads the TOML config at path (or the default location), falling
// back to defaults when the file is missing or a value is blank.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL           string   `toml:"base_url"`
		TimeoutSeconds    float64  `toml:"timeout_seconds"`
		RequestsPerSecond float64  `toml:"requests_per_second"`
		Theme             string   `toml:"theme"`
		LogFile           string   `toml:"log_file"`
		LogLevel          string   `toml:"log_level"`
		SearchDebounceMS  *int64   `toml:"search_debounce_ms"`
		ToastSeconds      *float64 `toml:"toast_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if raw.TimeoutSeconds > 0 {
		cfg.Timeout = seconds(raw.TimeoutSeconds)
	}
	if raw.RequestsPerSecond < 0 {
		return Config{}, fmt.Errorf("requests_per_second must not be negative")
	}
	cfg.RequestsPerSecond = raw.RequestsPerSecond
	if v := strings.TrimSpace(raw.Theme); v != "" {
		cfg.Theme = v
	}
	switch v := strings.TrimSpace(raw.LogFile); v {
	case "":
	case logging.Disabled:
		cfg.LogFile = logging.Disabled
	default:
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if !logging.ValidLevel(v) {
			return Config{}, fmt.Errorf("log_level %q: want debug, info, warn or error", v)
		}
		cfg.LogLevel = strings.ToLower(v)
	}
	if raw.SearchDebounceMS != nil {
		if *raw.SearchDebounceMS < 0 {
			return Config{}, fmt.Errorf("search_debounce_ms must not be negative")
		}
		cfg.SearchDebounce = time.Duration(*raw.SearchDebounceMS) * time.Millisecond
	}
	if raw.ToastSeconds != nil && *raw.ToastSeconds > 0 {
		cfg.ToastDuration = seconds(*raw.ToastSeconds)
	}

	return cfg, nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
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
