package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timebox/internal/dateutil"
	"github.com/javiermolinar/timebox/internal/edit"
	"github.com/javiermolinar/timebox/internal/scheduler"
	"github.com/javiermolinar/timebox/internal/task"
)

func (a *App) scheduleCmd() *cobra.Command {
	var (
		at   string
		date string
	)

	cmd := &cobra.Command{
		Use:   "schedule <task-id>",
		Short: "Give an unscheduled task or all-day event a time",
		Long: `Put a task without a time of day on the timeline.

With --at the task starts at the given time. Otherwise it goes into the
first free slot of --date (default today) inside the visible hours.
Tasks without a duration get the configured default duration.`,
		Example: `  timebox schedule 0193a7c2 --at 14:00
  timebox schedule 0193a7c2 --date tomorrow`,
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
			if t.IsTimed() {
				return fmt.Errorf("task %s already has a time, use move instead", shortID(t.ID))
			}

			day, err := dateutil.ParseRelativeDate(date, time.Now())
			if err != nil {
				return err
			}

			var start time.Time
			if at != "" {
				start, err = parseWhen(at, day)
			} else {
				duration := t.DurationMinutes
				if duration == 0 || t.IsAllDayEvent {
					duration = a.config.Edit.DefaultDurationMinutes
				}
				start, err = a.firstFree(ctx, day, duration)
			}
			if err != nil {
				return err
			}

			cs, err := a.runEdit(ctx, editRequest{
				op:     edit.Operation{Task: t, Mode: edit.ModeSchedule},
				day:    start,
				cursor: start,
			})
			if err != nil {
				return fmt.Errorf("scheduling task: %w", err)
			}
			a.report(cmd.OutOrStdout(), cs)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Start (HH:MM or 'YYYY-MM-DD HH:MM')")
	cmd.Flags().StringVar(&date, "date", "", "Day to find a free slot on (today, tomorrow, weekday or YYYY-MM-DD)")
	a.addEditFlags(cmd, nil)

	return cmd
}

// ErrNoFreeSlot is returned when a day has no room for a task.
var ErrNoFreeSlot = errors.New("no free slot in the visible hours")

// firstFree finds the earliest free grid slot on day, never in the past.
func (a *App) firstFree(ctx context.Context, day time.Time, duration int) (time.Time, error) {
	tasks, err := a.repo.ListTasks(ctx, day.AddDate(0, 0, -1), day)
	if err != nil {
		return time.Time{}, fmt.Errorf("listing tasks: %w", err)
	}
	tl := a.config.Timeline
	s := scheduler.New(tl.Workdays, tl.DayStart, tl.DayEnd, a.config.Edit.SnapStepMinutes)

	notBefore := dateutil.TruncateToDay(day)
	if now := time.Now(); task.SameDay(now, day) {
		notBefore = now
	}
	start, ok := s.FirstFree(tasks, day, notBefore, duration)
	if !ok {
		return time.Time{}, fmt.Errorf("%s: %w", day.Format("Mon Jan 2"), ErrNoFreeSlot)
	}
	return start, nil
}
