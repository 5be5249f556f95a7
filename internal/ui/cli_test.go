package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/timebox/internal/config"
	"github.com/javiermolinar/timebox/internal/db"
	"github.com/javiermolinar/timebox/internal/edit"
	"github.com/javiermolinar/timebox/internal/task"
)

func newTestRepo(t *testing.T) *db.SQLite {
	t.Helper()
	DisableColor()
	repo, err := db.New(filepath.Join(t.TempDir(), "timebox.db"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// runCLI executes one command line against repo with a fresh App, so flag
// values never leak between invocations.
func runCLI(t *testing.T, repo *db.SQLite, args ...string) (string, error) {
	t.Helper()
	app := NewApp(repo, config.Default())
	var out bytes.Buffer
	app.SetOutput(&out)
	app.SetArgs(args)
	err := app.Execute()
	return out.String(), err
}

func seed(t *testing.T, repo *db.SQLite, tasks ...task.Task) {
	t.Helper()
	for _, tk := range tasks {
		if err := repo.CreateTask(context.Background(), tk); err != nil {
			t.Fatalf("CreateTask(%s): %v", tk.ID, err)
		}
	}
}

func timed(t *testing.T, id string, hour, duration int) task.Task {
	t.Helper()
	tk, err := task.New(id, "task "+id, at(6, hour, 0), duration)
	if err != nil {
		t.Fatal(err)
	}
	return tk
}

func get(t *testing.T, repo *db.SQLite, id string) task.Task {
	t.Helper()
	tk, err := repo.GetTask(context.Background(), id)
	if err != nil {
		t.Fatalf("GetTask(%s): %v", id, err)
	}
	return tk
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, newTestRepo(t), "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "timebox dev") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestAddCmd_Timed(t *testing.T) {
	repo := newTestRepo(t)

	out, err := runCLI(t, repo, "add", "Write docs", "--date", "2025-01-06", "--start", "09:00", "--duration", "60")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out, "+ created") {
		t.Errorf("unexpected output %q", out)
	}

	tasks, err := repo.ListTasks(context.Background(), at(6, 0, 0), at(6, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if !got.StartTime.Equal(at(6, 9, 0)) || got.DurationMinutes != 60 || got.FirstLineText != "Write docs" {
		t.Errorf("unexpected task %+v", got)
	}
}

func TestAddCmd_AllDayAndUnscheduled(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := runCLI(t, repo, "add", "Conference", "--all-day", "--days", "3", "--date", "2025-01-06"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, repo, "add", "Call the bank", "--unscheduled"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, repo, "add", "Both", "--unscheduled", "--all-day"); err == nil {
		t.Error("expected error combining --all-day and --unscheduled")
	}

	ctx := context.Background()
	events, err := repo.ListTasks(ctx, at(8, 0, 0), at(8, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || !events[0].IsAllDayEvent || events[0].SpanDays() != 3 {
		t.Errorf("unexpected all-day tasks %+v", events)
	}
	todo, err := repo.ListUnscheduled(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(todo) != 1 || todo[0].FirstLineText != "Call the bank" {
		t.Errorf("unexpected unscheduled tasks %+v", todo)
	}
}

func TestMoveCmd_PushesNeighbours(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, timed(t, "a", 9, 60), timed(t, "b", 10, 60))

	out, err := runCLI(t, repo, "move", "a", "--to", "2025-01-06 09:30", "--policy", "push")
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if strings.Count(out, "~ updated") != 2 {
		t.Errorf("expected two updates, got:\n%s", out)
	}

	if a := get(t, repo, "a"); !a.StartTime.Equal(at(6, 9, 30)) || a.DurationMinutes != 60 {
		t.Errorf("a = %s +%d, want 09:30 +60", a.StartTime.Format("15:04"), a.DurationMinutes)
	}
	if b := get(t, repo, "b"); !b.StartTime.Equal(at(6, 10, 30)) || b.DurationMinutes != 60 {
		t.Errorf("b = %s +%d, want 10:30 +60", b.StartTime.Format("15:04"), b.DurationMinutes)
	}
}

func TestMoveCmd_ToAnotherDay(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, timed(t, "a", 9, 60))

	if _, err := runCLI(t, repo, "move", "a", "--to", "2025-01-08 14:00"); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if a := get(t, repo, "a"); !a.StartTime.Equal(at(8, 14, 0)) {
		t.Errorf("a starts at %s, want jan 8 14:00", a.StartTime)
	}
}

func TestMoveCmd_DryRunWritesNothing(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, timed(t, "a", 9, 60))

	out, err := runCLI(t, repo, "move", "a", "--to", "11:00", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "dry run") {
		t.Errorf("expected dry run notice, got %q", out)
	}
	if a := get(t, repo, "a"); !a.StartTime.Equal(at(6, 9, 0)) {
		t.Errorf("dry run moved the task to %s", a.StartTime)
	}
}

func TestMoveCmd_UnknownTask(t *testing.T) {
	_, err := runCLI(t, newTestRepo(t), "move", "nope", "--to", "10:00")
	if !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestResizeCmd(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantA     [2]int // start hour*60+min, duration
		wantB     [2]int
		wantError bool
	}{
		{
			name:  "longer with shrink",
			args:  []string{"--duration", "90", "--policy", "shrink"},
			wantA: [2]int{540, 90},
			wantB: [2]int{630, 30},
		},
		{
			name:  "longer with push",
			args:  []string{"--end", "10:30", "--policy", "push"},
			wantA: [2]int{540, 90},
			wantB: [2]int{630, 60},
		},
		{
			name:  "from the top",
			args:  []string{"--start", "08:00"},
			wantA: [2]int{480, 120},
			wantB: [2]int{600, 60},
		},
		{
			name:      "no edge given",
			args:      nil,
			wantError: true,
		},
		{
			name:      "two edges given",
			args:      []string{"--start", "08:00", "--end", "10:30"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepo(t)
			seed(t, repo, timed(t, "a", 9, 60), timed(t, "b", 10, 60))

			_, err := runCLI(t, repo, append([]string{"resize", "a"}, tt.args...)...)
			if tt.wantError {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resize failed: %v", err)
			}
			for id, want := range map[string][2]int{"a": tt.wantA, "b": tt.wantB} {
				got := get(t, repo, id)
				if m := task.MinutesSinceMidnight(got.StartTime); m != want[0] || got.DurationMinutes != want[1] {
					t.Errorf("%s = %d +%d, want %d +%d", id, m, got.DurationMinutes, want[0], want[1])
				}
			}
		})
	}
}

func TestResizeCmd_PastMidnight(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, timed(t, "late", 23, 30))

	if _, err := runCLI(t, repo, "resize", "late", "--end", "2025-01-07 01:00"); err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	if got := get(t, repo, "late"); got.DurationMinutes != 120 || !got.StartTime.Equal(at(6, 23, 0)) {
		t.Errorf("late = %s +%d, want 23:00 +120", got.StartTime, got.DurationMinutes)
	}
}

func TestDeleteCmd(t *testing.T) {
	repo := newTestRepo(t)
	feed := timed(t, "feed", 14, 60)
	feed.Readonly = true
	seed(t, repo, timed(t, "a", 9, 60), feed)

	if _, err := runCLI(t, repo, "delete", "a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.GetTask(context.Background(), "a"); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("expected a deleted, got %v", err)
	}

	_, err := runCLI(t, repo, "delete", "feed")
	if !errors.Is(err, edit.ErrReadonlyTask) {
		t.Errorf("expected ErrReadonlyTask, got %v", err)
	}
}

func TestScheduleCmd(t *testing.T) {
	repo := newTestRepo(t)
	todo, err := task.NewUnscheduled("todo", "write report", at(6, 0, 0), 0)
	if err != nil {
		t.Fatal(err)
	}
	seed(t, repo, todo, timed(t, "a", 9, 60))

	if _, err := runCLI(t, repo, "schedule", "todo", "--at", "2025-01-06 14:00"); err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	got := get(t, repo, "todo")
	if !got.IsTimed() || !got.StartTime.Equal(at(6, 14, 0)) || got.DurationMinutes != 30 {
		t.Errorf("unexpected scheduled task %+v", got)
	}

	if _, err := runCLI(t, repo, "schedule", "a", "--at", "10:00"); err == nil {
		t.Error("expected error scheduling a timed task")
	}
}

func TestShowCmd(t *testing.T) {
	repo := newTestRepo(t)
	trip, err := task.NewAllDay("trip", "offsite", at(5, 0, 0), 3)
	if err != nil {
		t.Fatal(err)
	}
	seed(t, repo,
		timed(t, "a", 9, 60),
		timed(t, "b", 9, 30),
		timed(t, "late", 23, 120),
		trip,
	)

	out, err := runCLI(t, repo, "show", "--start", "2025-01-06", "--days", "2")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{
		"All day",
		"◀", // trip started before the range
		"offsite",
		"[1/2]", "[2/2]", // a and b overlap
		"overlapping blocks",
		"23:00-23:59", // late, first day
		"00:00-01:00", // late, second day
		"Monday, January 6, 2025",
		"Tuesday, January 7, 2025",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestListAndHistoryCmd(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, timed(t, "a", 9, 60))

	out, err := runCLI(t, repo, "list", "--start", "2025-01-06")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "a 09:00-10:00") {
		t.Errorf("list output missing task:\n%s", out)
	}

	out, err = runCLI(t, repo, "history")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No changes yet.") {
		t.Errorf("unexpected history before edits:\n%s", out)
	}

	if _, err := runCLI(t, repo, "move", "a", "--to", "10:00"); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, repo, "history")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "~ a") || !strings.Contains(out, "→") {
		t.Errorf("history output missing update:\n%s", out)
	}
}
