package ui

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timebox/internal/dateutil"
	"github.com/javiermolinar/timebox/internal/task"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate   string
		days        int
		unscheduled bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks with their IDs",
		Long: `List every task starting within a date range, with its full ID.

If no dates are specified, lists today's tasks. Use --unscheduled to list
the tasks that have no time yet.`,
		Example: `  timebox list
  timebox list --start=2025-01-15 --days=7
  timebox list --unscheduled`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			var tasks []task.Task
			if unscheduled {
				var err error
				if tasks, err = a.repo.ListUnscheduled(ctx); err != nil {
					return fmt.Errorf("listing tasks: %w", err)
				}
			} else {
				start, err := dateutil.ParseRelativeDate(startDate, time.Now())
				if err != nil {
					return err
				}
				dateRange, err := dateutil.NewDateRange(start, days)
				if err != nil {
					return err
				}
				all, err := a.repo.ListTasks(ctx, dateRange.Start, dateRange.End)
				if err != nil {
					return fmt.Errorf("listing tasks: %w", err)
				}
				// Tasks spilling in from before the range are listed on their own day.
				for _, t := range all {
					if dateRange.Contains(t.StartTime) {
						tasks = append(tasks, t)
					}
				}
			}

			if len(tasks) == 0 {
				fmt.Fprintln(w, "No tasks found.")
				return nil
			}

			// Print tasks grouped by date
			var currentDate string
			for _, t := range tasks {
				date := task.DayKey(t.StartTime)
				if date != currentDate {
					if currentDate != "" {
						fmt.Fprintln(w)
					}
					fmt.Fprintf(w, "=== %s ===\n", date)
					currentDate = date
				}
				fmt.Fprintf(w, "  %s %s %-13s %s\n", kindSymbol(t), t.ID, timeColumn(t), t.FirstLineText)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "First day (today, tomorrow, weekday or YYYY-MM-DD, defaults to today)")
	cmd.Flags().IntVar(&days, "days", 1, "Number of days to list")
	cmd.Flags().BoolVar(&unscheduled, "unscheduled", false, "List tasks without a time of day")

	return cmd
}

func kindSymbol(t task.Task) string {
	switch {
	case t.Readonly:
		return "◇"
	case t.IsAllDayEvent:
		return "▬"
	case t.HasTime:
		return "○"
	default:
		return "·"
	}
}

func timeColumn(t task.Task) string {
	switch {
	case t.IsAllDayEvent:
		return fmt.Sprintf("all day %dd", t.SpanDays())
	case t.HasTime:
		return formatSpan(t)
	default:
		return "--:--"
	}
}
