package tui

import (
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timebox/internal/db"
	"github.com/javiermolinar/timebox/internal/edit"
	"github.com/javiermolinar/timebox/internal/task"
	"github.com/javiermolinar/timebox/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.Width = max(msg.Width-10, 10)
		m.clampCursor()
		return m, nil

	case commands.LoadedMsg:
		// A load started before the range moved is stale.
		if !msg.From.Equal(m.start) || msg.Days != m.days {
			return m, nil
		}
		wasEditing := m.editor.Editing()
		m.editor.SetBaseline(msg.Tasks)
		m.loading = false
		if wasEditing {
			m.logModeChange(ModeNormal, "baseline_replaced")
			m.mode = ModeNormal
			m.clampCursor()
			return m.withStatus("Tasks changed on disk, edit cancelled", true)
		}
		m.logger.Debug("range loaded",
			slog.String("from", task.DayKey(msg.From)),
			slog.Int("days", msg.Days),
			slog.Int("tasks", len(msg.Tasks)))
		return m, nil

	case commands.SavedMsg:
		status := "Saved"
		if msg.Mode == edit.ModeDelete {
			status = "Deleted"
		}
		var cmd tea.Cmd
		m, cmd = m.withStatus(status, false)
		return m, tea.Batch(cmd, m.reload())

	case commands.SaveFailedMsg:
		m.logError("saving edit", msg.Err)
		text := fmt.Sprintf("Error saving: %v", msg.Err)
		if errors.Is(msg.Err, db.ErrConflict) {
			text = "Tasks changed on disk, reloaded"
		}
		m.loading = true
		var cmd tea.Cmd
		m, cmd = m.withStatus(text, true)
		return m, tea.Batch(cmd, m.reload())

	case commands.ErrMsg:
		m.logError("command failed", msg.Err)
		m.loading = false
		return m.withStatus(fmt.Sprintf("Error: %v", msg.Err), true)

	case commands.StatusMsgCmd:
		return m.withStatus(msg.Msg, false)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}
