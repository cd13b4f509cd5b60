package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Joseda-hg/tasker/internal/app"
	"github.com/Joseda-hg/tasker/internal/config"
	"github.com/Joseda-hg/tasker/internal/logging"
	"github.com/Joseda-hg/tasker/internal/tui"
)

func newBoardCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the kanban board in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			// The board owns the terminal, so logs go to a file.
			logPath := cfg.LogPath
			if logPath == "" {
				if logPath, err = config.DefaultDataPath("tasker.log"); err != nil {
					return fmt.Errorf("resolve log path: %w", err)
				}
			}
			log, closer, err := logging.NewFile(cfg.LogLevel, logPath)
			if err != nil {
				return err
			}
			defer closer.Close()

			a, err := app.New(cfg, app.WithLogger(log))
			if err != nil {
				return err
			}
			defer a.Close()

			log.Info().Str("api", cfg.APIBaseURL).Msg("board started")
			return tui.Run(a)
		},
	}
}
