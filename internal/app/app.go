package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/api"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/notify"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/ui"
)

// toastBuffer is how many toasts may wait for the UI before the oldest is
// dropped.
const toastBuffer = 16

// Options configure a shelf session. Non-empty fields override the config
// file.
type Options struct {
	ConfigPath string
	BaseURL    string
	Theme      string
	LogLevel   string
}

// Env is the shared setup for the TUI and the CLI commands.
type Env struct {
	Config config.Config
	Logger *zap.Logger
	Client *api.Client

	closeLog func() error
}

// Setup loads the config, applies overrides, opens the log and builds the
// API client.
func Setup(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(opts.Theme); v != "" {
		cfg.Theme = v
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		if !logging.ValidLevel(v) {
			return nil, fmt.Errorf("log level %q: want debug, info, warn or error", v)
		}
		cfg.LogLevel = strings.ToLower(v)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Output = cfg.LogFile
	logger, closeLog, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	client, err := api.NewClient(api.Options{
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	return &Env{Config: cfg, Logger: logger, Client: client, closeLog: closeLog}, nil
}

// Close flushes and closes the log.
func (e *Env) Close() error {
	if e == nil || e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// NewStore builds the object store the UI works against, with toasts
// routed to queue.
func (e *Env) NewStore(queue *notify.Queue) *state.Store {
	opts := []state.Option{
		state.WithLogger(e.Logger),
		state.WithToastDuration(e.Config.ToastDuration),
	}
	if queue != nil {
		opts = append(opts, state.WithNotifier(queue))
	}
	return state.New(e.Client, opts...)
}

// Run boots the shelf TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Logger.Info("starting",
		zap.String("base_url", env.Client.BaseURL()),
		zap.String("theme", env.Config.Theme),
	)

	queue := notify.NewQueue(toastBuffer)
	store := env.NewStore(queue)

	logPath := env.Config.LogFile
	if logPath == logging.Disabled {
		logPath = ""
	}

	err = ui.Run(ui.Options{
		Context:        ctx,
		Store:          store,
		Notifications:  queue.C(),
		ThemeName:      env.Config.Theme,
		LogPath:        logPath,
		SearchDebounce: env.Config.SearchDebounce,
		Logger:         env.Logger,
	})
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		// Interrupted by a signal rather than failing.
		err = nil
	}
	env.Logger.Info("stopped", zap.Error(err))
	return err
}
