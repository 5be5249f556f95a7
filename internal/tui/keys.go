package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/javiermolinar/timebox/internal/block"
	"github.com/javiermolinar/timebox/internal/dateutil"
	"github.com/javiermolinar/timebox/internal/edit"
	"github.com/javiermolinar/timebox/internal/task"
	"github.com/javiermolinar/timebox/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logKeyPress(msg)

	if msg.String() == "ctrl+c" {
		m.editor.CancelEdit()
		return m, tea.Quit
	}
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeEdit:
		return m.handleEditKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "h", "left":
		if m.cursor.Day > 0 {
			m.cursor.Day--
			m.logCursorMove("left")
			return m, nil
		}
		return m.shiftRange(-1)
	case "l", "right":
		if m.cursor.Day < m.days-1 {
			m.cursor.Day++
			m.logCursorMove("right")
			return m, nil
		}
		return m.shiftRange(1)
	case "j", "down":
		m.cursor.Row++
		m.clampCursor()
	case "k", "up":
		m.cursor.Row--
		m.clampCursor()
	case "pgdown", "ctrl+d":
		m.cursor.Row += m.visibleRows()
		m.clampCursor()
	case "pgup", "ctrl+u":
		m.cursor.Row -= m.visibleRows()
		m.clampCursor()

	// Range navigation
	case "H", "shift+left":
		return m.shiftRange(-m.days)
	case "L", "shift+right":
		return m.shiftRange(m.days)
	case "t":
		return m.jumpToToday()

	// Edits. Lowercase gestures leave neighbors alone, uppercase ones
	// apply the neighbor policy.
	case "m":
		return m.startGesture(edit.GestureDrag, block.PolicyNone)
	case "M":
		return m.startGesture(edit.GestureDrag, m.editor.Settings().Policy)
	case "r":
		return m.startGesture(edit.GestureResize, block.PolicyNone)
	case "R":
		return m.startGesture(edit.GestureResize, m.editor.Settings().Policy)
	case "b":
		return m.startGesture(edit.GestureResizeFromTop, block.PolicyNone)
	case "B":
		return m.startGesture(edit.GestureResizeFromTop, m.editor.Settings().Policy)
	case "n":
		m.logModeChange(ModePrompt, "new_task")
		m.mode = ModePrompt
		m.prompt.SetValue("")
		return m, m.prompt.Focus()
	case "s":
		return m.startSchedule()
	case "d", "x":
		return m.deleteAtCursor()
	case "p":
		return m.cyclePolicy()
	case "y":
		return m.handleYank()
	case "ctrl+r":
		m.loading = true
		return m, m.reload()
	}

	return m, nil
}

// handleEditKeys handles keys while an operation follows the cursor.
func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.withStatus("Finish the edit first: enter saves, esc cancels", true)

	case "enter":
		cmd := commands.Confirm(m.editor)
		m.logModeChange(ModeNormal, "confirmed")
		m.mode = ModeNormal
		m.clampCursor()
		return m, cmd

	case "esc":
		m.editor.CancelEdit()
		m.logModeChange(ModeNormal, "cancelled")
		m.mode = ModeNormal
		m.clampCursor()
		return m.withStatus("Edit cancelled", false)

	case "h", "left":
		m.cursor.Day--
	case "l", "right":
		m.cursor.Day++
	case "j", "down":
		m.cursor.Row++
	case "k", "up":
		m.cursor.Row--
	case "pgdown", "ctrl+d":
		m.cursor.Row += m.visibleRows()
	case "pgup", "ctrl+u":
		m.cursor.Row -= m.visibleRows()
	default:
		return m, nil
	}

	m.clampCursor()
	m.syncEditor()
	m.logCursorMove("edit")
	return m, nil
}

// handlePromptKeys handles keys in prompt mode.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.logModeChange(ModeNormal, "prompt_cancelled")
		m.mode = ModeNormal
		m.prompt.Blur()
		m.prompt.SetValue("")
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.prompt.Value())
		m.mode = ModeNormal
		m.prompt.Blur()
		m.prompt.SetValue("")
		if value == "" {
			return m, nil
		}
		return m.startCreate(value)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// shiftRange moves the visible range by n days and reloads it.
func (m Model) shiftRange(n int) (tea.Model, tea.Cmd) {
	m.start = m.start.AddDate(0, 0, n)
	m.loading = true
	m.logger.Debug("range shifted", slog.String("start", task.DayKey(m.start)), slog.Int("days", n))
	return m, m.reload()
}

func (m Model) jumpToToday() (tea.Model, tea.Cmd) {
	now := m.now()
	m.cursor.Row = m.sched.RowOf(now)
	if i, ok := m.dayIndex(now); ok {
		m.cursor.Day = i
		m.clampCursor()
		return m, nil
	}
	m.start = dateutil.TruncateToDay(now)
	m.cursor.Day = 0
	m.clampCursor()
	m.loading = true
	return m, m.reload()
}

// startGesture starts a drag or resize of the task under the cursor.
func (m Model) startGesture(g edit.Gesture, p block.Policy) (tea.Model, tea.Cmd) {
	t, ok := m.taskAtCursor()
	if !ok {
		return m.withStatus("No task under the cursor", true)
	}

	mode := edit.ModeFor(g, p)
	anchor := t.StartTime
	if movesEnd(mode) {
		anchor = t.End()
	}
	return m.startEdit(edit.Operation{Task: t, Mode: mode}, anchor, false)
}

// startCreate starts drawing a new task of the given text at the cursor.
func (m Model) startCreate(text string) (tea.Model, tea.Cmd) {
	start := m.cursorTime()
	ghost, err := task.New(uuid.Must(uuid.NewV7()).String(), text, start, 0)
	if err != nil {
		return m.withStatus(fmt.Sprintf("Error: %v", err), true)
	}
	end := task.AddMinutes(start, max(m.editor.Settings().DefaultDurationMinutes, m.sched.Step()))
	return m.startEdit(edit.Operation{Task: ghost, Mode: edit.ModeCreate}, end, true)
}

// startSchedule places the first unscheduled task at the first free slot
// of the cursor day, or at the cursor when the day is full.
func (m Model) startSchedule() (tea.Model, tea.Cmd) {
	todo := m.unscheduled()
	if len(todo) == 0 {
		return m.withStatus("No unscheduled tasks", false)
	}
	t := todo[0]

	duration := t.DurationMinutes
	if duration == 0 {
		duration = m.editor.Settings().DefaultDurationMinutes
	}
	at, ok := m.sched.FirstFree(m.editor.Pending(), m.cursorDay(), m.now(), duration)
	if !ok {
		at = m.cursorTime()
	}
	return m.startEdit(edit.Operation{Task: t, Mode: edit.ModeSchedule, Day: at}, at, true)
}

// startEdit starts op and puts the cursor on pointer. With apply the
// pointer is pushed into the operation right away; otherwise the edit
// shows no change until the cursor moves.
func (m Model) startEdit(op edit.Operation, pointer time.Time, apply bool) (tea.Model, tea.Cmd) {
	if err := m.editor.StartEdit(op); err != nil {
		m.logError("starting edit", err)
		return m.withStatus(editErrorText(err), true)
	}

	m.logModeChange(ModeEdit, op.Mode.String())
	m.mode = ModeEdit
	edge := pointer
	if movesEnd(op.Mode) {
		edge = pointer.Add(-time.Minute)
	}
	if i, ok := m.dayIndex(edge); ok {
		m.cursor.Day = i
	}
	m.cursor.Row = m.rowForPointer(op.Mode, pointer)
	m.clampCursor()
	if apply {
		m.syncEditor()
	}
	m.logEditState("start")
	return m, nil
}

// deleteAtCursor deletes the task under the cursor right away.
func (m Model) deleteAtCursor() (tea.Model, tea.Cmd) {
	t, ok := m.taskAtCursor()
	if !ok {
		return m.withStatus("No task under the cursor", true)
	}
	if err := m.editor.StartEdit(edit.Operation{Task: t, Mode: edit.ModeDelete}); err != nil {
		m.logError("starting delete", err)
		return m.withStatus(editErrorText(err), true)
	}
	m.logEditState("delete")
	return m, commands.Confirm(m.editor)
}

// cyclePolicy switches the neighbor policy used by uppercase gestures.
func (m Model) cyclePolicy() (tea.Model, tea.Cmd) {
	s := m.editor.Settings()
	switch s.Policy {
	case block.PolicyPush:
		s.Policy = block.PolicyShrink
	case block.PolicyShrink:
		s.Policy = block.PolicyNone
	default:
		s.Policy = block.PolicyPush
	}
	m.editor.SetSettings(s)
	return m.withStatus("Policy: "+s.Policy.String(), false)
}

// handleYank copies the text of the task under the cursor.
func (m Model) handleYank() (tea.Model, tea.Cmd) {
	t, ok := m.taskAtCursor()
	if !ok {
		return m.withStatus("No task under the cursor", true)
	}
	return m, commands.CopyToClipboard(t.Text)
}

func editErrorText(err error) string {
	switch {
	case errors.Is(err, edit.ErrReadonlyTask):
		return "Read-only task: press m to drag a copy"
	case errors.Is(err, edit.ErrSyncInProgress):
		return "Still saving, try again"
	case errors.Is(err, edit.ErrNotTimed):
		return "Task has no time of day"
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
