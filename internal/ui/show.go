package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timebox/internal/dateutil"
	"github.com/javiermolinar/timebox/internal/edit"
)

func (a *App) showCmd() *cobra.Command {
	var (
		startDate string
		days      int
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the timeline",
		Long: `Display the timeline of one or more days.

All-day events are drawn as bars across the shown days, with arrows where
they continue outside the range. Overlapping time blocks are marked with
their lane, e.g. [2/3]. Blocks running past midnight appear on every day
they touch.`,
		Example: `  timebox show
  timebox show --days=7
  timebox show --start=monday --days=5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			start, err := dateutil.ParseRelativeDate(startDate, time.Now())
			if err != nil {
				return err
			}
			if days == 0 {
				days = a.config.Timeline.Days
			}
			dateRange, err := dateutil.NewDateRange(start, days)
			if err != nil {
				return err
			}

			// The day before holds tasks running into the first shown day.
			tasks, err := a.loadBaseline(ctx, dateRange.Start.AddDate(0, 0, -1), dateRange.End)
			if err != nil {
				return err
			}
			ed := edit.New(tasks, a.config.EditSettings(), edit.Callbacks{}, edit.WithLogger(a.logger))

			allDay := ed.DisplayedAllDay(dateRange.Start, dateRange.End)
			if len(allDay) > 0 {
				fmt.Fprintln(w, formatHeader("All day"))
				for _, rt := range allDay {
					fmt.Fprintf(w, "  %s  %s\n", formatAllDay(allDayBar(rt, days)), rt.Task.FirstLineText)
				}
				fmt.Fprintln(w)
			}

			maxTextWidth := max(termWidth()-40, 20)
			displayed := ed.Displayed()
			for i, day := range dateRange.Days() {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "=== %s ===\n", formatHeader(day.Format("Monday, January 2, 2006")))

				bucket := displayed.Get(day)
				if len(bucket.WithTime) == 0 {
					fmt.Fprintf(w, "  %s\n", formatMuted("No time blocks."))
				}
				for _, t := range bucket.WithTime {
					printTaskRow(w, t, maxTextWidth)
				}
				var todo []string
				for _, t := range bucket.NoTime {
					if !t.IsAllDayEvent {
						todo = append(todo, t.FirstLineText)
					}
				}
				if len(todo) > 0 {
					fmt.Fprintf(w, "  %s %s\n", formatMuted("unscheduled:"), strings.Join(todo, ", "))
				}
				printDayStats(w, bucket)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "First day (today, tomorrow, weekday or YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 0, "Number of days (default from config)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
