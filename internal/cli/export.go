package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Joseda-hg/tasker/internal/export"
	"github.com/Joseda-hg/tasker/internal/model"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var workspace string
	cmd := &cobra.Command{
		Use:   "export [file.xlsx]",
		Short: "Export the board to an xlsx workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "tasker-board.xlsx"
			if len(args) == 1 {
				path = args[0]
			}
			filters, err := workspaceFilter(workspace)
			if err != nil {
				return err
			}

			a, err := opts.openApp(zerolog.Nop())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.Tasks.LoadTasks(ctx, filters); err != nil {
				return fmt.Errorf("load tasks: %w", err)
			}
			if err := a.Channels.LoadChannels(ctx); err != nil {
				return fmt.Errorf("load channels: %w", err)
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			if err := export.WriteBoard(f, a.Tasks.Tasks(), a.Channels.Channels()); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", path, err)
			}
			fmt.Fprintf(out(cmd), "Exported %d tasks to %s\n", len(a.Tasks.Tasks()), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&workspace, "workspace", "", "only export WORK or PERSONAL tasks")
	return cmd
}

func workspaceFilter(value string) (*model.TaskFilters, error) {
	if value == "" {
		return nil, nil
	}
	ws := model.Workspace(strings.ToUpper(strings.TrimSpace(value)))
	if !ws.Valid() {
		return nil, fmt.Errorf("unknown workspace %q (want WORK or PERSONAL)", value)
	}
	return &model.TaskFilters{Workspace: ws}, nil
}
