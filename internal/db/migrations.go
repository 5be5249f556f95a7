package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			text        TEXT NOT NULL,
			first_line  TEXT NOT NULL DEFAULT '',
			start_at    TEXT NOT NULL,
			day         DATE NOT NULL,
			end_day     DATE NOT NULL,
			has_time    INTEGER NOT NULL DEFAULT 0,
			all_day     INTEGER NOT NULL DEFAULT 0,
			duration    INTEGER NOT NULL DEFAULT 0 CHECK(duration >= 0),
			readonly    INTEGER NOT NULL DEFAULT 0,
			source_path TEXT,
			source_line INTEGER,
			source_end  INTEGER,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK(NOT (has_time = 1 AND all_day = 1))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_day ON tasks(day, end_day)`,
		`CREATE TABLE IF NOT EXISTS changes (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			batch           TEXT NOT NULL,
			kind            TEXT NOT NULL CHECK(kind IN ('created', 'updated', 'deleted')),
			task_id         TEXT NOT NULL,
			text            TEXT NOT NULL,
			before_start    TEXT,
			before_duration INTEGER,
			after_start     TEXT,
			after_duration  INTEGER,
			applied_at      DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_changes_batch ON changes(batch)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("applying migration: %w", err)
		}
	}
	return nil
}
