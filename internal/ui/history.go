package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timebox/internal/db"
)

// historian is implemented by stores that keep a change log.
type historian interface {
	History(ctx context.Context, limit int) ([]db.LogEntry, error)
}

func (a *App) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently applied changes",
		Long: `Show the change log, newest first. Changes written by one confirmed edit
share a batch and are grouped together.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			h, ok := a.repo.(historian)
			if !ok {
				return errors.New("this store keeps no history")
			}
			entries, err := h.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(w, "No changes yet.")
				return nil
			}
			var batch string
			for _, e := range entries {
				if e.Batch != batch {
					fmt.Fprintf(w, "%s %s\n", formatHeader(e.AppliedAt), formatMuted(shortID(e.Batch)))
					batch = e.Batch
				}
				fmt.Fprintf(w, "  %s %s  %s  %s\n", kindLabel(e.Kind), shortID(e.TaskID), describeEntry(e), e.Text)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of changes to show")
	return cmd
}

func kindLabel(kind string) string {
	switch kind {
	case "created":
		return formatCreated("+")
	case "deleted":
		return formatDeleted("-")
	default:
		return formatUpdated("~")
	}
}

func describeEntry(e db.LogEntry) string {
	switch e.Kind {
	case "created":
		return fmt.Sprintf("%s (%s)", e.AfterStart, FormatDuration(e.AfterDuration))
	case "deleted":
		return fmt.Sprintf("%s (%s)", e.BeforeStart, FormatDuration(e.BeforeDuration))
	default:
		return fmt.Sprintf("%s (%s) → %s (%s)", e.BeforeStart, FormatDuration(e.BeforeDuration), e.AfterStart, FormatDuration(e.AfterDuration))
	}
}
