package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Joseda-hg/tasker/internal/model"
)

func newTasksCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and create tasks without opening the board",
	}
	cmd.AddCommand(newTasksListCommand(opts))
	cmd.AddCommand(newTasksAddCommand(opts))
	return cmd
}

func newTasksListCommand(opts *rootOptions) *cobra.Command {
	var workspace, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks grouped by column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters, err := workspaceFilter(workspace)
			if err != nil {
				return err
			}
			if status != "" {
				s := model.TaskStatus(strings.ToUpper(status))
				if !s.Valid() {
					return fmt.Errorf("unknown status %q", status)
				}
				if filters == nil {
					filters = &model.TaskFilters{}
				}
				filters.Status = s
			}

			a, err := opts.openApp(zerolog.Nop())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Tasks.LoadTasks(cmd.Context(), filters); err != nil {
				return err
			}
			tasks := a.Tasks.Tasks()
			if len(tasks) == 0 {
				fmt.Fprintln(out(cmd), "No tasks found.")
				return nil
			}

			now := time.Now()
			w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tWORKSPACE\tTITLE\tDUE\tUPDATED")
			for _, status := range model.TaskStatuses {
				for _, task := range a.Tasks.TasksByStatus(status) {
					due := "-"
					if task.DueDate != nil {
						due = humanize.RelTime(*task.DueDate, now, "ago", "from now")
					}
					updated := "-"
					if !task.UpdatedAt.IsZero() {
						updated = humanize.Time(task.UpdatedAt)
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", task.ID, task.Status, task.Workspace, task.Title, due, updated)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&workspace, "workspace", "", "WORK or PERSONAL")
	cmd.Flags().StringVar(&status, "status", "", "BACKLOG, TODAY, IN_PROGRESS or DONE")
	return cmd
}

func newTasksAddCommand(opts *rootOptions) *cobra.Command {
	var (
		workspace string
		status    string
		due       string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := model.CreateTaskInput{
				Title:     args[0],
				Workspace: model.Workspace(strings.ToUpper(workspace)),
				Status:    model.TaskStatus(strings.ToUpper(status)),
			}
			if due != "" {
				parsed, err := time.Parse(time.DateOnly, due)
				if err != nil {
					return fmt.Errorf("invalid --due %q, want YYYY-MM-DD", due)
				}
				input.DueDate = &parsed
			}

			a, err := opts.openApp(zerolog.Nop())
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := a.Tasks.AddTask(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Created task %d in %s/%s\n", task.ID, task.Workspace, task.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&workspace, "workspace", string(model.WorkspaceWork), "WORK or PERSONAL")
	cmd.Flags().StringVar(&status, "status", "", "initial column (default BACKLOG)")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	return cmd
}
