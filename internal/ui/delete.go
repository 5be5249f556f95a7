package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timebox/internal/edit"
)

func (a *App) deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Long: `Delete a task by its ID. Read-only tasks cannot be deleted.

Example:
  timebox delete 0193a7c2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()

			t, err := a.lookup(ctx, args[0])
			if err != nil {
				return err
			}

			cs, err := a.runEdit(ctx, editRequest{
				op:     edit.Operation{Task: t, Mode: edit.ModeDelete},
				cursor: t.StartTime,
			})
			if err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}
			a.report(cmd.OutOrStdout(), cs)
			return nil
		},
	}

	a.addEditFlags(cmd, nil)
	return cmd
}
