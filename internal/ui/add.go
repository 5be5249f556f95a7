package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/timebox/internal/dateutil"
	"github.com/javiermolinar/timebox/internal/diff"
	"github.com/javiermolinar/timebox/internal/edit"
	"github.com/javiermolinar/timebox/internal/task"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date        string
		start       string
		duration    int
		allDay      bool
		days        int
		unscheduled bool
	)

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a new task",
		Long: `Add a new task to the timeline.

A timed task starts at --start, or in the first free slot of the day when
--start is omitted. --all-day adds an event spanning --days days and
--unscheduled adds a task without a time of day.`,
		Example: `  timebox add "Write documentation" --date=2025-01-10 --start=09:00 --duration=120
  timebox add "Review PRs" --date=tomorrow
  timebox add "Conference" --all-day --days=3 --date=monday
  timebox add "Call the bank" --unscheduled`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(args[0])
			if allDay && unscheduled {
				return errors.New("--all-day and --unscheduled are mutually exclusive")
			}
			if duration < 0 {
				return task.ErrNegativeDuration
			}
			day, err := dateutil.ParseRelativeDate(date, time.Now())
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()
			id := uuid.Must(uuid.NewV7()).String()

			if allDay || unscheduled {
				var t task.Task
				if allDay {
					t, err = task.NewAllDay(id, text, day, days)
				} else {
					t, err = task.NewUnscheduled(id, text, day, duration)
				}
				if err != nil {
					return err
				}
				if !a.dryRun {
					if err := a.repo.CreateTask(ctx, t); err != nil {
						return fmt.Errorf("creating task: %w", err)
					}
				}
				a.report(cmd.OutOrStdout(), diff.ChangeSet{Created: []task.Task{t}})
				return nil
			}

			if duration == 0 {
				duration = a.config.Edit.DefaultDurationMinutes
			}
			var at time.Time
			if start != "" {
				at, err = parseWhen(start, day)
			} else {
				at, err = a.firstFree(ctx, day, duration)
			}
			if err != nil {
				return err
			}

			ghost, err := task.New(id, text, at, 0)
			if err != nil {
				return err
			}
			end := task.AddMinutes(at, duration)
			cs, err := a.runEdit(ctx, editRequest{
				op:     edit.Operation{Task: ghost, Mode: edit.ModeCreate},
				day:    end,
				cursor: end,
			})
			if err != nil {
				return fmt.Errorf("creating task: %w", err)
			}
			a.report(cmd.OutOrStdout(), cs)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day (today, tomorrow, weekday or YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, default: first free slot)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes (default from config)")
	cmd.Flags().BoolVar(&allDay, "all-day", false, "Add an all-day event")
	cmd.Flags().IntVar(&days, "days", 1, "Days an all-day event spans")
	cmd.Flags().BoolVar(&unscheduled, "unscheduled", false, "Add a task without a time of day")
	a.addEditFlags(cmd, nil)

	return cmd
}
