// Package config loads shelf's TOML configuration.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/shelf/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but a field is missing or blank, use its default
//
// # TOML Format
//
//	base_url = "https://api.restful-api.dev"
//	timeout_seconds = 10
//	requests_per_second = 0     # 0 disables client-side pacing
//	theme = "Nightfox"          # Nightfox, Kanagawa or Slate
//	log_file = "~/.local/state/shelf/shelf.log"   # "-" disables logging
//	log_level = "info"
//	search_debounce_ms = 300
//	toast_seconds = 3
//
// Tilde expansion is applied to log_file. Command-line flags override the
// file; see internal/cli.
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML syntax errors, negative
// rates or delays, and unknown log levels. A missing file is not an error.
package config
