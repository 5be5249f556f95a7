package edit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/timebox/internal/dateutil"
	"github.com/javiermolinar/timebox/internal/diff"
	"github.com/javiermolinar/timebox/internal/placing"
	"github.com/javiermolinar/timebox/internal/task"
)

// Editor errors.
var (
	ErrEditInProgress = errors.New("an edit is already in progress")
	ErrSyncInProgress = errors.New("changes are still being written")
	ErrReadonlyTask   = errors.New("read-only tasks can only be copied")
	ErrNotTimed       = errors.New("task has no time of day")
	ErrStaleBaseline  = errors.New("tasks changed while editing")
	ErrAborted        = errors.New("edit aborted")
	ErrTaskNotFound   = task.ErrTaskNotFound
)

// Callbacks connect the editor to the storage layer.
type Callbacks struct {
	// OnUpdate persists a confirmed edit. It is called without the editor
	// lock held and never with an empty change set.
	OnUpdate func(ctx context.Context, changes diff.ChangeSet, mode Mode) error

	// OnEditAborted reports an edit discarded by Abort or SetBaseline.
	OnEditAborted func(reason error)
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIDFunc sets the generator for ids of created and copied tasks.
func WithIDFunc(newID func() string) Option {
	return func(e *Editor) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// Editor holds the baseline tasks and at most one active operation.
// It is safe for concurrent use.
type Editor struct {
	mu        sync.Mutex
	baseline  []task.Task
	settings  Settings
	callbacks Callbacks
	op        *Operation
	cursor    time.Time
	syncing   bool

	logger *slog.Logger
	newID  func() string
}

// New creates an idle editor over baseline.
func New(baseline []task.Task, settings Settings, callbacks Callbacks, opts ...Option) *Editor {
	e := &Editor{
		baseline:  task.CloneAll(baseline),
		settings:  settings,
		callbacks: callbacks,
		logger:    slog.Default(),
		newID:     func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartEdit makes op the active operation.
//
// The target is looked up in the baseline by id; op.Task only needs its
// ID, except in ModeCreate where it is the task to create (start time and
// text) and gets a fresh id when it has none. Dragging a read-only task
// drags an editable copy instead. When op.Day is zero it defaults to the
// day the pointer starts on.
func (e *Editor) StartEdit(op Operation) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.syncing {
		return ErrSyncInProgress
	}
	if e.op != nil {
		return ErrEditInProgress
	}

	op.Ghost = false
	switch {
	case op.Mode == ModeCreate:
		ghost := op.Task.Clone()
		if ghost.ID == "" {
			ghost.ID = e.newID()
		}
		ghost.HasTime = true
		ghost.IsAllDayEvent = false
		ghost.Readonly = false
		ghost.Location = nil
		ghost.DurationMinutes = max(e.settings.MinimalDurationMinutes, 0)
		op.Task = ghost
		op.Ghost = true

	default:
		target, ok := task.Find(e.baseline, op.Task.ID)
		if !ok {
			return fmt.Errorf("starting %s of %q: %w", op.Mode, op.Task.ID, ErrTaskNotFound)
		}
		if (op.Mode.IsDrag() || op.Mode.IsResize()) && !target.IsTimed() {
			return fmt.Errorf("starting %s of %q: %w", op.Mode, target.ID, ErrNotTimed)
		}
		if target.Readonly {
			if !op.Mode.IsDrag() {
				return fmt.Errorf("starting %s of %q: %w", op.Mode, target.ID, ErrReadonlyTask)
			}
			target = target.Clone()
			target.ID = e.newID()
			target.Readonly = false
			target.Location = nil
			op.Ghost = true
		}
		op.Task = target
	}

	e.cursor = initialCursor(op)
	if op.Day.IsZero() {
		op.Day = e.cursor
	}
	op.Day = dateutil.TruncateToDay(op.Day)
	e.op = &op

	e.logger.Debug("edit started",
		slog.String("mode", op.Mode.String()),
		slog.String("task", op.Task.ID),
		slog.Bool("ghost", op.Ghost),
		slog.String("day", task.DayKey(op.Day)))
	return nil
}

// initialCursor is the pointer position at which op changes nothing.
func initialCursor(op Operation) time.Time {
	switch op.Mode {
	case ModeResize, ModeResizeAndShiftOthers, ModeResizeAndShrinkOthers, ModeCreate:
		return op.Task.End()
	default:
		return op.Task.StartTime
	}
}

// MoveCursor sets the pointer time of day. Ignored when idle.
func (e *Editor) MoveCursor(t time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.op != nil {
		e.cursor = t
	}
}

// EnterDay moves the active operation into the container of day.
func (e *Editor) EnterDay(day time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.op == nil {
		return
	}
	day = dateutil.TruncateToDay(day)
	if !day.Equal(e.op.Day) {
		e.logger.Debug("edit entered day", slog.String("day", task.DayKey(day)))
	}
	e.op.Day = day
}

// Operation returns a copy of the active operation.
func (e *Editor) Operation() (Operation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.op == nil {
		return Operation{}, false
	}
	op := *e.op
	op.Task = op.Task.Clone()
	return op, true
}

// Editing returns true while an operation is active.
func (e *Editor) Editing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.op != nil
}

// Syncing returns true while a confirmed edit is being written.
func (e *Editor) Syncing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.syncing
}

// Baseline returns a copy of the committed tasks.
func (e *Editor) Baseline() []task.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return task.CloneAll(e.baseline)
}

// Pending returns the tasks as currently displayed: the baseline with the
// active operation applied at the cursor. It is recomputed on every call.
func (e *Editor) Pending() []task.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingLocked()
}

func (e *Editor) pendingLocked() []task.Task {
	if e.op == nil {
		return task.CloneAll(e.baseline)
	}
	return Transform(e.baseline, *e.op, e.cursor, e.settings)
}

// Displayed groups the pending tasks by day, with lanes assigned to
// overlapping timed tasks.
func (e *Editor) Displayed() task.Days {
	days := task.GroupByDay(e.Pending())
	for key, b := range days {
		b.WithTime = placing.Place(b.WithTime)
		days[key] = b
	}
	return days
}

// DisplayedAllDay returns the pending all-day tasks clipped to [from, to].
func (e *Editor) DisplayedAllDay(from, to time.Time) []task.RangeTask {
	return task.AllDayInRange(e.Pending(), from, to)
}

// Settings returns the current settings.
func (e *Editor) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// SetSettings replaces the settings. An active operation picks them up on
// the next projection.
func (e *Editor) SetSettings(s Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings = s
}

// ConfirmEdit commits the active operation.
//
// The pending view becomes the new baseline and the operation is cleared
// in one step. When nothing changed, including a read-only copy dropped
// back onto its original, OnUpdate is not called. Otherwise
// OnUpdate runs with the lock released; StartEdit fails with
// ErrSyncInProgress until it returns. A failed update is returned but the
// baseline keeps the edited tasks.
func (e *Editor) ConfirmEdit(ctx context.Context) error {
	e.mu.Lock()
	if e.op == nil {
		e.mu.Unlock()
		return nil
	}
	mode := e.op.Mode
	pending := e.pendingLocked()
	if e.unmovedCopyLocked(pending) {
		e.op = nil
		e.mu.Unlock()
		e.logger.Debug("copy dropped in place, nothing created", slog.String("mode", mode.String()))
		return nil
	}
	old := e.baseline
	e.baseline = pending
	e.op = nil

	changes := diff.Compute(old, pending)
	if changes.Empty() {
		e.mu.Unlock()
		e.logger.Debug("edit confirmed without changes", slog.String("mode", mode.String()))
		return nil
	}
	e.syncing = true
	onUpdate := e.callbacks.OnUpdate
	e.mu.Unlock()

	e.logger.Debug("edit confirmed",
		slog.String("mode", mode.String()),
		slog.Int("created", len(changes.Created)),
		slog.Int("updated", len(changes.Updated)),
		slog.Int("deleted", len(changes.Deleted)))

	var err error
	if onUpdate != nil {
		err = onUpdate(ctx, changes, mode)
	}

	e.mu.Lock()
	e.syncing = false
	e.mu.Unlock()

	if err != nil {
		e.logger.Error("applying changes failed", slog.String("mode", mode.String()), slog.String("error", err.Error()))
		return fmt.Errorf("applying changes: %w", err)
	}
	return nil
}

// unmovedCopyLocked reports whether the active operation drags a copy of a
// read-only task that ends up where the original is.
func (e *Editor) unmovedCopyLocked(pending []task.Task) bool {
	if !e.op.Ghost || !e.op.Mode.IsDrag() {
		return false
	}
	copied, ok := task.Find(pending, e.op.Task.ID)
	return ok && copied.StartTime.Equal(e.op.Task.StartTime) &&
		copied.DurationMinutes == e.op.Task.DurationMinutes
}

// CancelEdit drops the active operation. The baseline is untouched.
func (e *Editor) CancelEdit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.op != nil {
		e.logger.Debug("edit cancelled", slog.String("mode", e.op.Mode.String()))
	}
	e.op = nil
}

// Abort drops the active operation and reports reason to OnEditAborted.
// It does nothing when idle.
func (e *Editor) Abort(reason error) {
	if reason == nil {
		reason = ErrAborted
	}
	e.mu.Lock()
	aborted := e.abortLocked(reason)
	e.mu.Unlock()
	e.notifyAborted(aborted, reason)
}

// SetBaseline replaces the committed tasks, for example after the store
// was changed by someone else. An active operation is aborted with
// ErrStaleBaseline.
func (e *Editor) SetBaseline(tasks []task.Task) {
	e.mu.Lock()
	e.baseline = task.CloneAll(tasks)
	aborted := e.abortLocked(ErrStaleBaseline)
	e.mu.Unlock()
	e.notifyAborted(aborted, ErrStaleBaseline)
}

func (e *Editor) abortLocked(reason error) bool {
	if e.op == nil {
		return false
	}
	e.logger.Warn("edit aborted",
		slog.String("mode", e.op.Mode.String()),
		slog.String("task", e.op.Task.ID),
		slog.String("reason", reason.Error()))
	e.op = nil
	return true
}

func (e *Editor) notifyAborted(aborted bool, reason error) {
	if aborted && e.callbacks.OnEditAborted != nil {
		e.callbacks.OnEditAborted(reason)
	}
}
