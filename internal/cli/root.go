// Package cli implements the shelf command line: the TUI as the root
// command plus scripting subcommands over the objects API.
package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/app"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	baseURL    string
	theme      string
	logLevel   string
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		BaseURL:    g.baseURL,
		Theme:      g.theme,
		LogLevel:   g.logLevel,
	}
}

// withEnv runs fn against a freshly set up environment and closes it after.
func (g *globalFlags) withEnv(cmd *cobra.Command, fn func(ctx context.Context, env *app.Env) error) error {
	env, err := app.Setup(g.options())
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(cmd.Context(), env)
}

// NewRootCommand builds the shelf command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "shelf",
		Short: "Browse and edit a catalog of objects from the terminal",
		Long: `shelf is a terminal client for a REST collection of named objects with
free-form attributes.

Run without a subcommand to open the interactive catalog. The subcommands
below talk to the same API for scripting.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to config file (default ~/.config/shelf/config.toml)")
	pf.StringVar(&flags.baseURL, "base-url", "", "API base URL (overrides base_url)")
	pf.StringVar(&flags.theme, "theme", "", "Color theme: Nightfox, Kanagawa or Slate")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newListCommand(flags),
		newGetCommand(flags),
		newCreateCommand(flags),
		newUpdateCommand(flags),
		newPatchCommand(flags),
		newDeleteCommand(flags),
	)
	return root
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}
