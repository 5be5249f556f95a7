package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timebox/internal/edit"
)

func (a *App) moveCmd() *cobra.Command {
	var (
		to     string
		policy string
	)

	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Move a time block to a new start",
		Long: `Drag a time block so it starts at the given time.

The block keeps its duration. Blocks after it on the target day are pushed
down or shrunk depending on --policy; blocks before it are pushed up or
shrunk the same way. Moving a read-only block creates an editable copy.`,
		Example: `  timebox move 0193a7c2 --to "2025-01-16 14:00"
  timebox move 0193a7c2 --to 10:30 --policy shrink  # same day
  timebox move 0193a7c2 --to 10:30 --dry-run`,
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
			target, err := parseWhen(to, t.StartTime)
			if err != nil {
				return err
			}
			p, err := a.policyFlag(policy)
			if err != nil {
				return err
			}

			cs, err := a.runEdit(ctx, editRequest{
				op:     edit.Operation{Task: t, Mode: edit.ModeFor(edit.GestureDrag, p)},
				day:    target,
				cursor: target,
			})
			if err != nil {
				return fmt.Errorf("moving task: %w", err)
			}
			a.report(cmd.OutOrStdout(), cs)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "New start (HH:MM or 'YYYY-MM-DD HH:MM', required)")
	a.addEditFlags(cmd, &policy)
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
