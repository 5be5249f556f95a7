package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timebox/internal/edit"
	"github.com/javiermolinar/timebox/internal/task"
)

func (a *App) resizeCmd() *cobra.Command {
	var (
		end      string
		start    string
		duration int
		policy   string
	)

	cmd := &cobra.Command{
		Use:   "resize <task-id>",
		Short: "Change where a time block ends or starts",
		Long: `Resize a time block from the bottom (--end, --duration) or from the
top (--start). The opposite edge stays put. A block never gets shorter
than the configured minimal duration, and an end past midnight makes the
block run into the next day.`,
		Example: `  timebox resize 0193a7c2 --end 11:30
  timebox resize 0193a7c2 --duration 90 --policy shrink
  timebox resize 0193a7c2 --start 08:45
  timebox resize 0193a7c2 --end "2025-01-17 01:00"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := 0
			for _, s := range []bool{end != "", start != "", duration > 0} {
				if s {
					set++
				}
			}
			if set != 1 {
				return errors.New("exactly one of --end, --start or --duration is required")
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()

			t, err := a.lookup(ctx, args[0])
			if err != nil {
				return err
			}
			p, err := a.policyFlag(policy)
			if err != nil {
				return err
			}

			gesture := edit.GestureResize
			var cursor time.Time
			switch {
			case duration > 0:
				cursor = task.AddMinutes(t.StartTime, duration)
			case end != "":
				cursor, err = parseWhen(end, t.StartTime)
			default:
				gesture = edit.GestureResizeFromTop
				cursor, err = parseWhen(start, t.StartTime)
			}
			if err != nil {
				return err
			}

			cs, err := a.runEdit(ctx, editRequest{
				op:     edit.Operation{Task: t, Mode: edit.ModeFor(gesture, p)},
				day:    cursor,
				cursor: cursor,
			})
			if err != nil {
				return fmt.Errorf("resizing task: %w", err)
			}
			a.report(cmd.OutOrStdout(), cs)
			return nil
		},
	}

	cmd.Flags().StringVar(&end, "end", "", "New end (HH:MM or 'YYYY-MM-DD HH:MM')")
	cmd.Flags().StringVar(&start, "start", "", "New start, keeping the end (HH:MM or 'YYYY-MM-DD HH:MM')")
	cmd.Flags().IntVar(&duration, "duration", 0, "New duration in minutes")
	a.addEditFlags(cmd, &policy)

	return cmd
}
