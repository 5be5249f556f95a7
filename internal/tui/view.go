package tui

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timebox/internal/task"
)

// View renders the TUI.
func (m Model) View() string {
	if m.loading && len(m.editor.Baseline()) == 0 {
		return "Loading..."
	}

	colW := m.colWidth()
	displayed := m.editor.Displayed()
	editID := ""
	if op, ok := m.editor.Operation(); ok {
		editID = op.Task.ID
	}

	lines := []string{
		m.renderTitle(),
		m.renderAllDay(colW),
		m.renderHeader(colW, displayed),
	}

	first := m.scroll
	last := first + m.visibleRows()
	for row := first; row < last; row++ {
		lines = append(lines, m.renderRow(row, colW, displayed, editID))
	}

	lines = append(lines,
		m.renderUnscheduled(),
		m.renderStatus(),
		m.renderFooter(),
	)
	return strings.Join(lines, "\n")
}

func (m Model) renderTitle() string {
	last := m.dayAt(m.days - 1)
	title := m.styles.TitleStyle.Render("timebox") + "  " +
		fmt.Sprintf("%s – %s", m.start.Format("Mon Jan 2"), last.Format("Mon Jan 2 2006"))

	badge := m.mode.String()
	if op, ok := m.editor.Operation(); ok {
		badge = op.Mode.String()
	}
	title += "  " + m.styles.ModeBadgeStyle.Render(strings.ToUpper(badge))
	title += m.styles.HelpStyle.Render("  policy: " + m.editor.Settings().Policy.String())
	if m.loading {
		title += m.styles.HelpStyle.Render("  loading…")
	}
	if m.editor.Syncing() {
		title += m.styles.HelpStyle.Render("  saving…")
	}
	return title
}

// renderAllDay draws one cell per day with the first all-day task
// covering it. Arrows mark tasks continuing outside the visible range.
func (m Model) renderAllDay(colW int) string {
	ranged := m.editor.DisplayedAllDay(m.start, m.dayAt(m.days-1))

	var b strings.Builder
	b.WriteString(m.styles.TimeColumnStyle.Render("all"))
	for d := range m.days {
		var covering []task.RangeTask
		for _, rt := range ranged {
			if d >= rt.Offset && d < rt.Offset+rt.Span {
				covering = append(covering, rt)
			}
		}
		b.WriteString(" ")
		if len(covering) == 0 {
			b.WriteString(m.styles.EmptyCellStyle.Render(fit("", colW)))
			continue
		}

		rt := covering[0]
		label := rt.Task.FirstLineText
		if d == rt.Offset && rt.IsTruncated(task.TruncatedLeft) {
			label = "◀ " + label
		}
		if d != rt.Offset {
			label = "·"
		}
		suffix := ""
		if d == rt.Offset+rt.Span-1 && rt.IsTruncated(task.TruncatedRight) {
			suffix = " ▶"
		}
		if extra := len(covering) - 1; extra > 0 {
			suffix += fmt.Sprintf(" +%d", extra)
		}
		label = truncateWithEllipsis(label, max(colW-lipgloss.Width(suffix), 1)) + suffix
		b.WriteString(m.styles.AllDayStyle.Render(fit(label, colW)))
	}
	return b.String()
}

func (m Model) renderHeader(colW int, displayed task.Days) string {
	today := m.now()

	var b strings.Builder
	b.WriteString(m.styles.TimeColumnStyle.Render(""))
	for d := range m.days {
		day := m.dayAt(d)
		label := day.Format("Mon 02")
		if mins := displayed.Get(day).Stats().ScheduledMinutes; mins > 0 {
			label += " · " + formatMinutes(mins)
		}

		style := m.styles.DayHeaderStyle
		switch {
		case task.SameDay(day, today):
			style = m.styles.DayHeaderTodayStyle
		case !m.sched.IsWorkday(day):
			style = style.Foreground(m.styles.colorMuted)
		}
		b.WriteString(" ")
		b.WriteString(style.Width(colW).Render(truncateWithEllipsis(label, colW)))
	}
	return b.String()
}

func (m Model) renderRow(row, colW int, displayed task.Days, editID string) string {
	var b strings.Builder

	rowTime := m.sched.RowTime(m.start, row)
	label := ""
	if rowTime.Minute() == 0 || row == m.scroll || m.sched.Step() >= 60 {
		label = rowTime.Format("15:04")
	}
	timeStyle := m.styles.TimeColumnStyle
	now := m.now()
	if _, ok := m.dayIndex(now); ok && m.sched.RowOf(now) == row {
		timeStyle = m.styles.TimeColumnNowStyle
		label = now.Format("15:04")
	}
	b.WriteString(timeStyle.Render(label))

	for d := range m.days {
		b.WriteString(" ")
		b.WriteString(m.renderCell(d, row, colW, displayed.Get(m.dayAt(d)).WithTime, editID))
	}
	return b.String()
}

// renderCell draws one grid row of one day. Overlapping blocks share the
// column according to their lanes.
func (m Model) renderCell(d, row, w int, chunks []task.Task, editID string) string {
	day := m.dayAt(d)
	rowStart := m.sched.RowTime(day, row)
	rowEnd := task.AddMinutes(rowStart, m.sched.Step())
	isCursor := m.cursor.Day == d && m.cursor.Row == row

	empty := m.styles.EmptyCellStyle
	if row < 0 || row >= m.sched.Rows() {
		empty = m.styles.OffHoursCellStyle
	}
	if isCursor {
		empty = m.styles.CursorStyle
	}

	var covering []task.Task
	alt := make(map[string]bool)
	for i, t := range chunks {
		alt[t.RenderKey] = i%2 == 1
		if t.StartTime.Before(rowEnd) && t.End().After(rowStart) {
			covering = append(covering, t)
		}
	}
	if len(covering) == 0 {
		return empty.Render(fit("", w))
	}
	slices.SortStableFunc(covering, func(a, b task.Task) int {
		return cmp.Compare(a.Placing.XOffsetPercent, b.Placing.XOffsetPercent)
	})

	var b strings.Builder
	pos := 0
	for _, t := range covering {
		off, lw := 0, w
		if t.Placing.WidthPercent > 0 {
			off = int(math.Round(float64(w) * t.Placing.XOffsetPercent / 100))
			lw = max(int(math.Round(float64(w)*t.Placing.WidthPercent/100)), 1)
		}
		off = max(off, pos)
		end := min(off+lw, w)
		if end <= off {
			continue
		}
		if off > pos {
			b.WriteString(empty.Render(fit("", off-pos)))
		}

		// Only the first row of a block is labeled.
		text := ""
		if !t.StartTime.Before(rowStart) || row == m.scroll {
			text = t.StartTime.Format("15:04") + " " + t.FirstLineText
		}

		style := m.styles.BlockStyleFor(t.Readonly, alt[t.RenderKey])
		switch {
		case t.ID == editID:
			style = m.styles.EditedStyle
		case m.isCurrent(t):
			style = m.styles.CurrentStyle
		}
		if isCursor {
			style = style.Reverse(true)
		}
		b.WriteString(style.Render(fit(text, end-off)))
		pos = end
	}
	if pos < w {
		b.WriteString(empty.Render(fit("", w-pos)))
	}
	return b.String()
}

func (m Model) renderUnscheduled() string {
	todo := m.unscheduled()
	if len(todo) == 0 {
		return m.styles.HelpStyle.Render("No unscheduled tasks")
	}
	const shown = 5
	names := make([]string, 0, shown)
	for _, t := range todo[:min(len(todo), shown)] {
		names = append(names, truncateWithEllipsis(t.FirstLineText, 24))
	}
	line := "Unscheduled: " + strings.Join(names, " · ")
	if extra := len(todo) - shown; extra > 0 {
		line += fmt.Sprintf(" · +%d more", extra)
	}
	return m.styles.UnscheduledStyle.Render(line)
}

func (m Model) renderStatus() string {
	if m.statusMsg == "" {
		return ""
	}
	if m.statusErr {
		return m.styles.StatusErrStyle.Render(m.statusMsg)
	}
	return m.styles.StatusStyle.Render(m.statusMsg)
}

func (m Model) renderFooter() string {
	switch m.mode {
	case ModePrompt:
		return m.prompt.View()
	case ModeEdit:
		return m.styles.HelpStyle.Render("hjkl move · enter save · esc cancel")
	default:
		return m.styles.HelpStyle.Render("hjkl move · HL range · t today · n new · m/M drag · r/R resize · b/B resize top · s schedule · d delete · p policy · y yank · q quit")
	}
}

// fit pads or truncates s to exactly w cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = truncateWithEllipsis(s, w)
	if pad := w - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// formatMinutes renders a duration as "45m", "2h" or "1h30".
func formatMinutes(minutes int) string {
	h, mins := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", mins)
	case mins == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02d", h, mins)
	}
}
