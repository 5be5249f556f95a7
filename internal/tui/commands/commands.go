// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timebox/internal/edit"
	"github.com/javiermolinar/timebox/internal/task"
)

// LoadedMsg is sent when the visible range has been read from storage.
type LoadedMsg struct {
	From  time.Time
	Days  int
	Tasks []task.Task
}

// SavedMsg is sent when a confirmed edit has been written, or needed no write.
type SavedMsg struct {
	Mode edit.Mode
}

// SaveFailedMsg is sent when writing a confirmed edit failed. The editor
// already shows the edited tasks; the view must be reloaded from storage.
type SaveFailedMsg struct {
	Err error
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadRange loads the tasks shown for days days starting at from, the day
// before for tasks running past midnight into it, and every unscheduled task.
func LoadRange(repo task.Repository, from time.Time, days int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		tasks, err := repo.ListTasks(ctx, from.AddDate(0, 0, -1), from.AddDate(0, 0, days-1))
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading tasks: %w", err)}
		}
		unscheduled, err := repo.ListUnscheduled(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading unscheduled tasks: %w", err)}
		}

		return LoadedMsg{From: from, Days: days, Tasks: append(tasks, unscheduled...)}
	}
}

// Confirm commits the active edit of ed. The editor's OnUpdate callback
// does the write.
func Confirm(ed *edit.Editor) tea.Cmd {
	op, ok := ed.Operation()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		if err := ed.ConfirmEdit(context.Background()); err != nil {
			return SaveFailedMsg{Err: err}
		}
		return SavedMsg{Mode: op.Mode}
	}
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if text == "" {
			return ErrMsg{Err: errors.New("nothing to copy")}
		}
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: "Copied to clipboard"}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
