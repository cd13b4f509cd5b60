// Package cli wires the tasker commands: the REST server, the terminal board
// and a few scripting helpers that talk to the same API.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Joseda-hg/tasker/internal/app"
	"github.com/Joseda-hg/tasker/internal/config"
)

type rootOptions struct {
	configPath string
	apiURL     string
	apiKey     string
	logLevel   string
}

// Execute runs the root command with os.Args.
func Execute(version string) error {
	cmd := NewRootCommand()
	cmd.Version = version
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "tasker",
		Short: "Tasker - a work/personal kanban board",
		Long: `Tasker keeps work and personal tasks on a four column board
(Backlog, Today, In Progress, Done) backed by a small REST server.

Run "tasker serve" once, then "tasker board" to open the board.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file path (default $XDG_CONFIG_HOME/tasker/config.yaml)")
	flags.StringVar(&opts.apiURL, "api-url", "", "API base URL, e.g. http://localhost:3000/api")
	flags.StringVar(&opts.apiKey, "api-key", "", "API key sent as x-api-key")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newBoardCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newTasksCommand(opts))
	return cmd
}

// load reads the config file and environment, then applies flags on top.
func (o *rootOptions) load() (config.Config, error) {
	path := o.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return config.Config{}, fmt.Errorf("resolve config path: %w", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if o.apiURL != "" {
		cfg.APIBaseURL = o.apiURL
	}
	if o.apiKey != "" {
		cfg.APIKey = o.apiKey
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

// openApp builds the client side for commands that talk to the API.
func (o *rootOptions) openApp(log zerolog.Logger) (*app.App, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, app.WithLogger(log))
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
