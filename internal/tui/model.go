package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timebox/internal/config"
	"github.com/javiermolinar/timebox/internal/dateutil"
	"github.com/javiermolinar/timebox/internal/diff"
	"github.com/javiermolinar/timebox/internal/edit"
	"github.com/javiermolinar/timebox/internal/scheduler"
	"github.com/javiermolinar/timebox/internal/task"
	"github.com/javiermolinar/timebox/internal/tui/commands"
	"github.com/javiermolinar/timebox/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEdit        // an editor operation follows the cursor
	ModePrompt      // typing the text of a new task
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeEdit:
		return "edit"
	case ModePrompt:
		return "prompt"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Position represents a cursor position in the grid.
type Position struct {
	Day int // index into the visible days
	Row int // grid row, see scheduler.RowTime
}

// Model is the main TUI model.
type Model struct {
	repo   task.Repository
	config *config.Config
	logger *slog.Logger
	styles *Styles

	editor *edit.Editor
	sched  *scheduler.Scheduler

	start   time.Time // first visible day
	days    int
	cursor  Position
	mode    Mode
	loading bool

	prompt textinput.Model

	width  int
	height int
	scroll int // first visible grid row

	statusMsg  string
	statusErr  bool
	statusTime time.Time

	now func() time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithNow overrides the clock.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a new TUI model showing cfg.Timeline.Days days from today.
func New(repo task.Repository, cfg *config.Config, opts ...ModelOption) Model {
	m := Model{
		repo:   repo,
		config: cfg,
		logger: slog.Default(),
		days:   max(cfg.Timeline.Days, 1),
		mode:   ModeNormal,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		m.logger.Warn("loading theme", slog.String("theme", cfg.UI.Theme), slog.String("error", err.Error()))
	}
	m.styles = NewStyles(t)

	ti := textinput.New()
	ti.Placeholder = "What are you working on?"
	ti.CharLimit = 256
	ti.Prompt = "new › "
	ti.PromptStyle = m.styles.PromptStyle
	ti.TextStyle = m.styles.PromptTextStyle
	m.prompt = ti

	m.sched = scheduler.New(cfg.Timeline.Workdays, cfg.Timeline.DayStart, cfg.Timeline.DayEnd, cfg.Edit.SnapStepMinutes)
	m.editor = edit.New(nil, cfg.EditSettings(), edit.Callbacks{
		OnUpdate: func(ctx context.Context, cs diff.ChangeSet, mode edit.Mode) error {
			return repo.ApplyChangeSet(ctx, cs)
		},
		OnEditAborted: func(reason error) {
			m.logger.Warn("edit aborted", slog.String("reason", reason.Error()))
		},
	}, edit.WithLogger(m.logger))

	now := m.now()
	m.start = dateutil.TruncateToDay(now)
	m.cursor = Position{Day: 0, Row: clampInt(m.sched.RowOf(now), 0, m.sched.Rows()-1)}
	m.loading = true
	return m
}

// Init loads the visible range.
func (m Model) Init() tea.Cmd {
	return commands.LoadRange(m.repo, m.start, m.days)
}

// Run starts the TUI.
func Run(repo task.Repository, cfg *config.Config, logger *slog.Logger) error {
	model := New(repo, cfg, WithLogger(logger))
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// reload re-reads the visible range from storage.
func (m Model) reload() tea.Cmd {
	return commands.LoadRange(m.repo, m.start, m.days)
}

// withStatus shows a temporary status message.
func (m Model) withStatus(msg string, isErr bool) (Model, tea.Cmd) {
	d := 3 * time.Second
	if isErr {
		d = 5 * time.Second
	}
	m.statusMsg = msg
	m.statusErr = isErr
	m.statusTime = m.now().Add(d)
	return m, commands.ClearStatusAfter(d)
}
