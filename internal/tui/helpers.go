package tui

import (
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/timebox/internal/dateutil"
	"github.com/javiermolinar/timebox/internal/edit"
	"github.com/javiermolinar/timebox/internal/task"
)

// Lines used by everything but the grid: title, all-day lane, day headers,
// unscheduled line, status and help.
const chromeLines = 7

// dayAt returns the date of visible column i.
func (m Model) dayAt(i int) time.Time {
	return m.start.AddDate(0, 0, i)
}

// dayIndex returns the visible column showing t.
func (m Model) dayIndex(t time.Time) (int, bool) {
	day := dateutil.TruncateToDay(t)
	for i := range m.days {
		if m.dayAt(i).Equal(day) {
			return i, true
		}
	}
	return 0, false
}

// cursorDay returns the date under the cursor.
func (m Model) cursorDay() time.Time {
	return m.dayAt(m.cursor.Day)
}

// cursorTime returns the start of the grid row under the cursor.
func (m Model) cursorTime() time.Time {
	return m.sched.RowTime(m.cursorDay(), m.cursor.Row)
}

// pointer returns the editor pointer for the cursor. Operations dragging
// an end edge point at the bottom of the cursor row so the row shows the
// last slot of the block.
func (m Model) pointer() time.Time {
	op, ok := m.editor.Operation()
	if ok && movesEnd(op.Mode) {
		return task.AddMinutes(m.cursorTime(), m.sched.Step())
	}
	return m.cursorTime()
}

func movesEnd(mode edit.Mode) bool {
	switch mode {
	case edit.ModeResize, edit.ModeResizeAndShiftOthers, edit.ModeResizeAndShrinkOthers, edit.ModeCreate:
		return true
	}
	return false
}

// rowForPointer is the inverse of pointer for mode.
func (m Model) rowForPointer(mode edit.Mode, t time.Time) int {
	if movesEnd(mode) {
		return m.sched.RowOf(t.Add(-time.Minute))
	}
	return m.sched.RowOf(t)
}

// syncEditor pushes the cursor into the active operation. The container
// is the day of the pointer itself, which for an end edge at midnight is
// the day after the cursor column.
func (m Model) syncEditor() {
	if !m.editor.Editing() {
		return
	}
	p := m.pointer()
	m.editor.EnterDay(p)
	m.editor.MoveCursor(p)
}

// displayedOn returns the timed chunks displayed on day, lanes assigned.
func (m Model) displayedOn(day time.Time) []task.Task {
	return m.editor.Displayed().Get(day).WithTime
}

// taskAtCursor returns the timed task covering the cursor row, preferring
// the leftmost lane when several overlap.
func (m Model) taskAtCursor() (task.Task, bool) {
	at := m.cursorTime()
	rowEnd := task.AddMinutes(at, m.sched.Step())
	var (
		found task.Task
		ok    bool
	)
	for _, t := range m.displayedOn(m.cursorDay()) {
		if !t.StartTime.Before(rowEnd) || !t.End().After(at) {
			continue
		}
		if !ok || t.Placing.XOffsetPercent < found.Placing.XOffsetPercent {
			found, ok = t, true
		}
	}
	if !ok {
		return task.Task{}, false
	}
	// Chunks of midnight-crossing tasks carry the id of the whole task.
	whole, exists := task.Find(m.editor.Pending(), found.ID)
	if !exists {
		return found, true
	}
	return whole, true
}

// unscheduled returns the pending tasks with neither a time nor an
// all-day flag.
func (m Model) unscheduled() []task.Task {
	var result []task.Task
	for _, t := range m.editor.Pending() {
		if t.IsUnscheduled() {
			result = append(result, t)
		}
	}
	return result
}

// isCurrent returns true if t runs at the current time.
func (m Model) isCurrent(t task.Task) bool {
	now := m.now()
	return !now.Before(t.StartTime) && now.Before(t.End())
}

// rowRange returns the rows the cursor may reach. Outside an edit that is
// the configured window; an edit may reach the whole day so blocks can be
// pushed into the night and past midnight.
func (m Model) rowRange() (first, last int) {
	if m.mode != ModeEdit {
		return 0, m.sched.Rows() - 1
	}
	step := m.sched.Step()
	dayStart := task.TimeToMinutes(m.sched.DayStart())
	return -(dayStart / step), (task.MinutesPerDay-dayStart)/step - 1
}

// visibleRows returns the number of grid rows that fit in the terminal.
func (m Model) visibleRows() int {
	first, last := m.rowRange()
	rows := last - first + 1
	if m.height <= 0 {
		return min(rows, m.sched.Rows())
	}
	return clampInt(m.height-chromeLines, 1, rows)
}

// clampCursor keeps the cursor inside the grid and scrolls to it.
func (m *Model) clampCursor() {
	first, last := m.rowRange()
	m.cursor.Day = clampInt(m.cursor.Day, 0, m.days-1)
	m.cursor.Row = clampInt(m.cursor.Row, first, last)
	m.ensureCursorVisible()
}

// ensureCursorVisible adjusts scroll offset to keep cursor visible.
func (m *Model) ensureCursorVisible() {
	first, last := m.rowRange()
	visible := m.visibleRows()
	if m.cursor.Row < m.scroll {
		m.scroll = m.cursor.Row
	}
	if m.cursor.Row >= m.scroll+visible {
		m.scroll = m.cursor.Row - visible + 1
	}
	m.scroll = clampInt(m.scroll, first, max(last-visible+1, first))
}

// colWidth returns the width of a day column.
func (m Model) colWidth() int {
	if m.width <= 0 {
		return defaultColWidth
	}
	return max((m.width-timeColWidth)/m.days-1, 4)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

// truncateWithEllipsis cuts s to width terminal cells.
func truncateWithEllipsis(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
