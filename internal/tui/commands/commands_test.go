package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/timebox/internal/diff"
	"github.com/javiermolinar/timebox/internal/edit"
	"github.com/javiermolinar/timebox/internal/task"
)

type fakeRepo struct {
	tasksByRange func(start, end time.Time) ([]task.Task, error)
	unscheduled  []task.Task
}

func (f fakeRepo) CreateTask(ctx context.Context, t task.Task) error {
	return errors.New("not implemented")
}

func (f fakeRepo) GetTask(ctx context.Context, id string) (task.Task, error) {
	return task.Task{}, errors.New("not implemented")
}

func (f fakeRepo) ListTasks(ctx context.Context, start, end time.Time) ([]task.Task, error) {
	if f.tasksByRange == nil {
		return nil, errors.New("not implemented")
	}
	return f.tasksByRange(start, end)
}

func (f fakeRepo) ListUnscheduled(ctx context.Context) ([]task.Task, error) {
	return f.unscheduled, nil
}

func (f fakeRepo) ApplyChangeSet(ctx context.Context, cs task.ChangeSet) error {
	return errors.New("not implemented")
}

func (f fakeRepo) Close() error {
	return nil
}

func TestLoadRangeReturnsLoadedMsg(t *testing.T) {
	from := time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local)
	timed, _ := task.New("a", "Test", from.Add(9*time.Hour), 60)
	todo, _ := task.NewUnscheduled("b", "Later", from, 0)

	var gotStart, gotEnd time.Time
	repo := fakeRepo{
		tasksByRange: func(start, end time.Time) ([]task.Task, error) {
			gotStart, gotEnd = start, end
			return []task.Task{timed}, nil
		},
		unscheduled: []task.Task{todo},
	}

	msg := LoadRange(repo, from, 7)()
	loaded, ok := msg.(LoadedMsg)
	if !ok {
		t.Fatalf("expected LoadedMsg, got %T", msg)
	}
	if len(loaded.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(loaded.Tasks))
	}
	if !gotStart.Equal(from.AddDate(0, 0, -1)) || !gotEnd.Equal(from.AddDate(0, 0, 6)) {
		t.Errorf("queried %s..%s, want the day before through the last visible day", gotStart, gotEnd)
	}
	if loaded.Days != 7 || !loaded.From.Equal(from) {
		t.Errorf("unexpected range %s +%d", loaded.From, loaded.Days)
	}
}

func TestLoadRangeReturnsErrMsg(t *testing.T) {
	repo := fakeRepo{
		tasksByRange: func(start, end time.Time) ([]task.Task, error) {
			return nil, errors.New("boom")
		},
	}

	msg := LoadRange(repo, time.Now(), 1)()
	if _, ok := msg.(ErrMsg); !ok {
		t.Fatalf("expected ErrMsg, got %T", msg)
	}
}

func TestConfirm(t *testing.T) {
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local)
	a, _ := task.New("a", "a", day.Add(9*time.Hour), 60)

	tests := []struct {
		name      string
		updateErr error
		wantSaved bool
	}{
		{name: "saved", wantSaved: true},
		{name: "failed", updateErr: errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := edit.New([]task.Task{a}, edit.DefaultSettings(), edit.Callbacks{
				OnUpdate: func(context.Context, diff.ChangeSet, edit.Mode) error { return tt.updateErr },
			})
			if err := ed.StartEdit(edit.Operation{Task: a, Mode: edit.ModeDelete}); err != nil {
				t.Fatal(err)
			}

			msg := Confirm(ed)()
			switch m := msg.(type) {
			case SavedMsg:
				if !tt.wantSaved {
					t.Fatalf("expected SaveFailedMsg, got SavedMsg")
				}
				if m.Mode != edit.ModeDelete {
					t.Errorf("mode = %s, want delete", m.Mode)
				}
			case SaveFailedMsg:
				if tt.wantSaved {
					t.Fatalf("unexpected failure: %v", m.Err)
				}
				if !errors.Is(m.Err, tt.updateErr) {
					t.Errorf("error = %v, want %v", m.Err, tt.updateErr)
				}
			default:
				t.Fatalf("unexpected message %T", msg)
			}
		})
	}
}

func TestConfirmWhileIdle(t *testing.T) {
	ed := edit.New(nil, edit.DefaultSettings(), edit.Callbacks{})
	if cmd := Confirm(ed); cmd != nil {
		t.Error("expected nil command without an active edit")
	}
}
