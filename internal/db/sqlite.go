// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/timebox/internal/task"
)

// ErrConflict is returned when a change set was computed against a task
// that has since changed in storage.
var ErrConflict = errors.New("task changed in storage")

const (
	dateLayout  = "2006-01-02"
	startLayout = "2006-01-02 15:04"
)

// SQLite implements task.Repository using SQLite.
type SQLite struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ task.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
// A nil logger uses slog.Default().
func New(path string, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := ensureDir(path); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, path: path, logger: logger}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" || path == ":memory:" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateTask adds a new task to the repository. An empty id gets a fresh one.
func (s *SQLite) CreateTask(ctx context.Context, t task.Task) error {
	if t.ID == "" {
		t.ID = newID()
	}
	if err := insertTask(ctx, s.db, t); err != nil {
		return err
	}
	s.logger.Debug("task created", slog.String("id", t.ID))
	return nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func insertTask(ctx context.Context, db execer, t task.Task) error {
	query := `
		INSERT INTO tasks (
			id, text, first_line, start_at, day, end_day, has_time, all_day,
			duration, readonly, source_path, source_line, source_end
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var (
		path          sql.NullString
		line, endLine sql.NullInt64
	)
	if t.Location != nil {
		path = sql.NullString{String: t.Location.Path, Valid: true}
		line = sql.NullInt64{Int64: int64(t.Location.Line), Valid: true}
		endLine = sql.NullInt64{Int64: int64(t.Location.EndLine), Valid: true}
	}

	_, err := db.ExecContext(ctx, query,
		t.ID,
		t.Text,
		t.FirstLineText,
		t.StartTime.Format(startLayout),
		t.StartTime.Format(dateLayout),
		endDay(t).Format(dateLayout),
		t.HasTime,
		t.IsAllDayEvent,
		t.DurationMinutes,
		t.Readonly,
		path,
		line,
		endLine,
	)
	if err != nil {
		return fmt.Errorf("inserting task %q: %w", t.ID, err)
	}
	return nil
}

// endDay is the last date the task is shown on.
func endDay(t task.Task) time.Time {
	switch {
	case t.IsAllDayEvent:
		return t.Day().AddDate(0, 0, t.SpanDays()-1)
	case t.IsTimed() && t.DurationMinutes > 0:
		return task.AddMinutes(t.StartTime, t.DurationMinutes-1)
	default:
		return t.StartTime
	}
}

const selectColumns = `
	SELECT id, text, first_line, start_at, has_time, all_day, duration, readonly,
	       source_path, source_line, source_end
	FROM tasks
`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var (
		t             task.Task
		startAt       string
		path          sql.NullString
		line, endLine sql.NullInt64
	)
	err := row.Scan(
		&t.ID,
		&t.Text,
		&t.FirstLineText,
		&startAt,
		&t.HasTime,
		&t.IsAllDayEvent,
		&t.DurationMinutes,
		&t.Readonly,
		&path,
		&line,
		&endLine,
	)
	if err != nil {
		return task.Task{}, err
	}

	t.StartTime, err = time.ParseInLocation(startLayout, startAt, time.Local)
	if err != nil {
		return task.Task{}, fmt.Errorf("parsing start of %q: %w", t.ID, err)
	}
	if path.Valid {
		t.Location = &task.Location{Path: path.String, Line: int(line.Int64), EndLine: int(endLine.Int64)}
	}
	return t, nil
}

// GetTask retrieves a task by ID.
func (s *SQLite) GetTask(ctx context.Context, id string) (task.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, fmt.Errorf("task %q: %w", id, task.ErrTaskNotFound)
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

// ListTasks returns timed and all-day tasks shown on any date of the range (inclusive).
func (s *SQLite) ListTasks(ctx context.Context, from, to time.Time) ([]task.Task, error) {
	query := selectColumns + `
		WHERE (has_time = 1 OR all_day = 1)
		  AND day <= ? AND end_day >= ?
		ORDER BY start_at, id
	`
	return s.queryTasks(ctx, query, to.Format(dateLayout), from.Format(dateLayout))
}

// ListUnscheduled returns tasks without a time or all-day flag.
func (s *SQLite) ListUnscheduled(ctx context.Context) ([]task.Task, error) {
	query := selectColumns + `
		WHERE has_time = 0 AND all_day = 0
		ORDER BY day, id
	`
	return s.queryTasks(ctx, query)
}

func (s *SQLite) queryTasks(ctx context.Context, query string, args ...any) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// ApplyChangeSet writes a confirmed edit in one transaction.
//
// Updates and deletes only apply to rows still matching the Before state
// of the change; otherwise nothing is written and ErrConflict is returned.
// Every applied change is recorded in the change log under one batch id.
func (s *SQLite) ApplyChangeSet(ctx context.Context, cs task.ChangeSet) error {
	if cs.Empty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	batch := newID()
	log := func(kind string, id, text string, before, after *task.Task) error {
		var bs, as sql.NullString
		var bd, ad sql.NullInt64
		if before != nil {
			bs = sql.NullString{String: before.StartTime.Format(startLayout), Valid: true}
			bd = sql.NullInt64{Int64: int64(before.DurationMinutes), Valid: true}
		}
		if after != nil {
			as = sql.NullString{String: after.StartTime.Format(startLayout), Valid: true}
			ad = sql.NullInt64{Int64: int64(after.DurationMinutes), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO changes (batch, kind, task_id, text, before_start, before_duration, after_start, after_duration)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, batch, kind, id, text, bs, bd, as, ad)
		if err != nil {
			return fmt.Errorf("logging %s change of %q: %w", kind, id, err)
		}
		return nil
	}

	for _, t := range cs.Created {
		if err := insertTask(ctx, tx, t); err != nil {
			return err
		}
		if err := log("created", t.ID, t.FirstLineText, nil, &t); err != nil {
			return err
		}
	}

	for _, c := range cs.Updated {
		result, err := tx.ExecContext(ctx, `
			UPDATE tasks
			SET start_at = ?, day = ?, end_day = ?, has_time = ?, all_day = ?, duration = ?
			WHERE id = ? AND start_at = ? AND duration = ? AND readonly = 0
		`,
			c.After.StartTime.Format(startLayout),
			c.After.StartTime.Format(dateLayout),
			endDay(c.After).Format(dateLayout),
			c.After.HasTime,
			c.After.IsAllDayEvent,
			c.After.DurationMinutes,
			c.Before.ID,
			c.Before.StartTime.Format(startLayout),
			c.Before.DurationMinutes,
		)
		if err != nil {
			return fmt.Errorf("updating task %q: %w", c.Before.ID, err)
		}
		if err := expectOne(result, c.Before.ID); err != nil {
			return err
		}
		if err := log("updated", c.After.ID, c.After.FirstLineText, &c.Before, &c.After); err != nil {
			return err
		}
	}

	for _, t := range cs.Deleted {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM tasks WHERE id = ? AND start_at = ? AND duration = ? AND readonly = 0`,
			t.ID, t.StartTime.Format(startLayout), t.DurationMinutes)
		if err != nil {
			return fmt.Errorf("deleting task %q: %w", t.ID, err)
		}
		if err := expectOne(result, t.ID); err != nil {
			return err
		}
		if err := log("deleted", t.ID, t.FirstLineText, &t, nil); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("change set applied",
		slog.String("batch", batch),
		slog.Int("created", len(cs.Created)),
		slog.Int("updated", len(cs.Updated)),
		slog.Int("deleted", len(cs.Deleted)))
	return nil
}

func expectOne(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows != 1 {
		return fmt.Errorf("task %q: %w", id, ErrConflict)
	}
	return nil
}

// LogEntry is one applied change from the change log.
type LogEntry struct {
	Batch          string
	Kind           string
	TaskID         string
	Text           string
	BeforeStart    string
	BeforeDuration int
	AfterStart     string
	AfterDuration  int
	AppliedAt      string
}

// History returns the most recent change log entries, newest first.
func (s *SQLite) History(ctx context.Context, limit int) ([]LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT batch, kind, task_id, text,
		       COALESCE(before_start, ''), COALESCE(before_duration, 0),
		       COALESCE(after_start, ''), COALESCE(after_duration, 0),
		       applied_at
		FROM changes
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.Batch, &e.Kind, &e.TaskID, &e.Text,
			&e.BeforeStart, &e.BeforeDuration, &e.AfterStart, &e.AfterDuration, &e.AppliedAt); err != nil {
			return nil, fmt.Errorf("scanning change: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return entries, nil
}
