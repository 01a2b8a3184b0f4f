// Package app is the composition root for shelf.
//
// # Overview
//
// Setup turns a config file plus command-line overrides into an Env: the
// resolved config.Config, a zap logger writing shelf's JSON log and an
// api.Client. The CLI subcommands use an Env directly; Run adds the
// pieces the TUI needs and blocks until the user quits.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()      Read ~/.config/shelf/config.toml
//	       ├─────> logging.New()      Open the log file (or a no-op logger)
//	       ├─────> api.NewClient()    HTTP client for the objects API
//	       ├─────> notify.NewQueue()  Toast channel drained by the UI
//	       ├─────> state.New()        Object store, toasts to the queue
//	       └─────> ui.Run()           Start TUI (blocks)
//
// There is no background polling: the list is fetched once at start and
// again whenever the user asks for a refresh.
//
// # Error Handling
//
// Setup fails on an unreadable or invalid config, an invalid log level, a
// log file that cannot be opened and a base URL without a host. Errors
// from the API never stop the program; the store records them and the UI
// shows them.
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{Theme: "Slate"}); err != nil {
//		log.Fatalf("shelf failed: %v", err)
//	}
package app
