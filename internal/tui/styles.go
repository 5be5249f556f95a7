// Package tui provides the terminal user interface for timebox.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timebox/internal/tui/theme"
)

// Default column width - will be recalculated dynamically.
const defaultColWidth = 18

const timeColWidth = 6

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorMuted lipgloss.Color

	TitleStyle          lipgloss.Style
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style
	TimeColumnStyle     lipgloss.Style
	TimeColumnNowStyle  lipgloss.Style

	// Timed blocks; Alt shades separate adjacent blocks in a column.
	BlockStyle       lipgloss.Style
	BlockAltStyle    lipgloss.Style
	ReadonlyStyle    lipgloss.Style
	ReadonlyAltStyle lipgloss.Style
	EditedStyle      lipgloss.Style // target of the active edit
	CurrentStyle     lipgloss.Style // block running now

	AllDayStyle      lipgloss.Style
	UnscheduledStyle lipgloss.Style

	EmptyCellStyle    lipgloss.Style
	OffHoursCellStyle lipgloss.Style
	CursorStyle       lipgloss.Style

	StatusStyle     lipgloss.Style
	StatusErrStyle  lipgloss.Style
	HelpStyle       lipgloss.Style
	ModeBadgeStyle  lipgloss.Style
	PromptStyle     lipgloss.Style
	PromptTextStyle lipgloss.Style
}

// NewStyles builds the styles for t. A nil theme uses the default theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorMuted = palette.FgMuted

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.Accent)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(palette.Fg).
		Width(defaultColWidth)

	s.DayHeaderTodayStyle = s.DayHeaderStyle.
		Foreground(palette.Accent).
		Underline(true)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(palette.FgMuted).
		Width(timeColWidth)

	s.TimeColumnNowStyle = s.TimeColumnStyle.
		Foreground(palette.Current).
		Bold(true)

	cell := lipgloss.NewStyle().Align(lipgloss.Left)

	s.BlockStyle = cell.
		Background(palette.BlockBg).
		Foreground(palette.TextOnBlock)
	s.BlockAltStyle = cell.
		Background(palette.BlockBgAlt).
		Foreground(palette.TextOnBlock)

	s.ReadonlyStyle = cell.
		Background(palette.ReadonlyBg).
		Foreground(palette.TextOnReadonly).
		Italic(true)
	s.ReadonlyAltStyle = s.ReadonlyStyle.
		Background(palette.ReadonlyBgAlt)

	s.EditedStyle = cell.
		Background(palette.Warning).
		Foreground(palette.TextOnWarning).
		Bold(true)

	s.CurrentStyle = cell.
		Background(palette.Current).
		Foreground(palette.TextOnCurrent).
		Bold(true)

	s.AllDayStyle = cell.
		Background(palette.AllDayBg).
		Foreground(palette.TextOnAllDay)

	s.UnscheduledStyle = lipgloss.NewStyle().
		Foreground(palette.FgMuted)

	s.EmptyCellStyle = cell.
		Foreground(palette.FgMuted)
	s.OffHoursCellStyle = cell.
		Background(palette.BgHighlight).
		Foreground(palette.FgMuted)

	s.CursorStyle = cell.
		Background(palette.BgSelection).
		Foreground(palette.Fg).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(palette.Accent)
	s.StatusErrStyle = lipgloss.NewStyle().
		Foreground(palette.Warning).
		Bold(true)
	s.HelpStyle = lipgloss.NewStyle().
		Foreground(palette.FgMuted)
	s.ModeBadgeStyle = lipgloss.NewStyle().
		Background(palette.Accent).
		Foreground(palette.TextOnAccent).
		Bold(true).
		Padding(0, 1)

	s.PromptStyle = lipgloss.NewStyle().
		Foreground(palette.Accent).
		Bold(true)
	s.PromptTextStyle = lipgloss.NewStyle().
		Foreground(palette.Fg)

	return s
}

// BlockStyleFor picks the background of a timed block. alt alternates
// between neighbors so adjacent blocks stay distinguishable.
func (s *Styles) BlockStyleFor(readonly, alt bool) lipgloss.Style {
	switch {
	case readonly && alt:
		return s.ReadonlyAltStyle
	case readonly:
		return s.ReadonlyStyle
	case alt:
		return s.BlockAltStyle
	default:
		return s.BlockStyle
	}
}
