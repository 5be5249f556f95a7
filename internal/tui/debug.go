package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timebox/internal/task"
)

// Debug helpers log TUI events through the model logger. With --debug the
// logger writes JSON lines to the debug log file; otherwise Debug records
// are dropped by the handler level.

func (m Model) logKeyPress(msg tea.KeyMsg) {
	m.logger.Debug("key press",
		slog.String("key", msg.String()),
		slog.String("mode", m.mode.String()))
}

func (m Model) logModeChange(to Mode, reason string) {
	m.logger.Debug("mode change",
		slog.String("from", m.mode.String()),
		slog.String("to", to.String()),
		slog.String("reason", reason))
}

func (m Model) logCursorMove(reason string) {
	m.logger.Debug("cursor move",
		slog.Int("day", m.cursor.Day),
		slog.Int("row", m.cursor.Row),
		slog.String("time", m.cursorTime().Format("2006-01-02 15:04")),
		slog.String("reason", reason))
}

func (m Model) logEditState(action string) {
	op, ok := m.editor.Operation()
	if !ok {
		m.logger.Debug("edit state", slog.String("action", action), slog.Bool("editing", false))
		return
	}
	m.logger.Debug("edit state",
		slog.String("action", action),
		slog.String("mode", op.Mode.String()),
		slog.String("task", op.Task.ID),
		slog.String("text", truncateWithEllipsis(op.Task.FirstLineText, 30)),
		slog.String("day", task.DayKey(op.Day)),
		slog.Bool("ghost", op.Ghost))
}

func (m Model) logError(context string, err error) {
	m.logger.Error(context, slog.String("error", err.Error()))
}
