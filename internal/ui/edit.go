package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timebox/internal/block"
	"github.com/javiermolinar/timebox/internal/dateutil"
	"github.com/javiermolinar/timebox/internal/diff"
	"github.com/javiermolinar/timebox/internal/edit"
	"github.com/javiermolinar/timebox/internal/task"
)

// editRequest is one pointer gesture replayed from the command line.
type editRequest struct {
	op     edit.Operation
	day    time.Time // container to enter before moving the cursor, zero keeps the start day
	cursor time.Time
}

// runEdit loads the tasks around the edited days, runs one editor
// lifecycle and writes the resulting change set unless --dry-run is set.
func (a *App) runEdit(ctx context.Context, req editRequest) (diff.ChangeSet, error) {
	from, to := editWindow(req)
	baseline, err := a.loadBaseline(ctx, from, to)
	if err != nil {
		return diff.ChangeSet{}, err
	}

	var applied diff.ChangeSet
	ed := edit.New(baseline, a.config.EditSettings(), edit.Callbacks{
		OnUpdate: func(ctx context.Context, cs diff.ChangeSet, mode edit.Mode) error {
			applied = cs
			if a.dryRun {
				a.logger.Debug("dry run, skipping write", slog.String("mode", mode.String()), slog.Int("changes", cs.Len()))
				return nil
			}
			return a.repo.ApplyChangeSet(ctx, cs)
		},
	}, edit.WithLogger(a.logger))

	if err := ed.StartEdit(req.op); err != nil {
		return diff.ChangeSet{}, err
	}
	if !req.day.IsZero() {
		ed.EnterDay(req.day)
	}
	ed.MoveCursor(req.cursor)
	if err := ed.ConfirmEdit(ctx); err != nil {
		return diff.ChangeSet{}, err
	}
	return applied, nil
}

// editWindow covers every day the edit can touch, plus the day before for
// tasks running past midnight into it.
func editWindow(req editRequest) (from, to time.Time) {
	days := []time.Time{req.cursor, req.op.Task.StartTime}
	if !req.day.IsZero() {
		days = append(days, req.day)
	}
	if req.op.Task.HasTime {
		days = append(days, req.op.Task.End())
	}
	from, to = days[0], days[0]
	for _, d := range days[1:] {
		if d.Before(from) {
			from = d
		}
		if d.After(to) {
			to = d
		}
	}
	return dateutil.TruncateToDay(from).AddDate(0, 0, -1), dateutil.TruncateToDay(to).AddDate(0, 0, 1)
}

// loadBaseline returns the scheduled tasks in [from, to] and every
// unscheduled task.
func (a *App) loadBaseline(ctx context.Context, from, to time.Time) ([]task.Task, error) {
	tasks, err := a.repo.ListTasks(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	unscheduled, err := a.repo.ListUnscheduled(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing unscheduled tasks: %w", err)
	}
	return append(tasks, unscheduled...), nil
}

// lookup fetches the task an edit command names.
func (a *App) lookup(ctx context.Context, id string) (task.Task, error) {
	t, err := a.repo.GetTask(ctx, id)
	if err != nil {
		return task.Task{}, fmt.Errorf("finding task %s: %w", id, err)
	}
	return t, nil
}

// policyFlag resolves --policy, falling back to the configured policy.
func (a *App) policyFlag(value string) (block.Policy, error) {
	if value == "" {
		value = a.config.Edit.Policy
	}
	return block.ParsePolicy(value)
}

// addEditFlags registers the flags shared by every edit command.
func (a *App) addEditFlags(cmd *cobra.Command, policy *string) {
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "Print the changes without writing them")
	if policy != nil {
		cmd.Flags().StringVar(policy, "policy", "", "How neighbours react: push, shrink or none (default from config)")
	}
}

func (a *App) report(w io.Writer, cs diff.ChangeSet) {
	printChangeSet(w, cs, a.dryRun)
}
