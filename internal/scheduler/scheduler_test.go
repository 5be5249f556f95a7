package scheduler

import (
	"testing"
	"time"

	"github.com/javiermolinar/timebox/internal/task"
)

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

func TestNextAvailableStart(t *testing.T) {
	s := New(weekdays, "09:00", "17:00", 15)

	tests := []struct {
		name      string
		now       time.Time
		wantDay   int
		wantStart string
	}{
		{"before work hours", time.Date(2025, 1, 6, 7, 30, 0, 0, time.Local), 6, "09:00"},
		{"during work hours", time.Date(2025, 1, 6, 10, 23, 0, 0, time.Local), 6, "10:30"},
		{"exactly on grid", time.Date(2025, 1, 6, 10, 30, 0, 0, time.Local), 6, "10:30"},
		{"after work hours", time.Date(2025, 1, 6, 18, 0, 0, 0, time.Local), 7, "09:00"},
		{"rounding past day end", time.Date(2025, 1, 6, 16, 50, 0, 0, time.Local), 7, "09:00"},
		{"friday evening", time.Date(2025, 1, 10, 18, 0, 0, 0, time.Local), 13, "09:00"},
		{"saturday", time.Date(2025, 1, 11, 10, 0, 0, 0, time.Local), 13, "09:00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			slot := s.NextAvailableStart(tc.now)
			if slot.Start != tc.wantStart {
				t.Errorf("expected start %s, got %s", tc.wantStart, slot.Start)
			}
			if slot.Date.Day() != tc.wantDay {
				t.Errorf("expected day %d, got %d", tc.wantDay, slot.Date.Day())
			}
			if slot.End != "17:00" {
				t.Errorf("expected end 17:00, got %s", slot.End)
			}
		})
	}
}

func TestGrid(t *testing.T) {
	s := New(weekdays, "08:00", "20:00", 15)
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	if s.Rows() != 48 {
		t.Errorf("expected 48 rows, got %d", s.Rows())
	}
	if got := s.RowTime(day, 0); got.Hour() != 8 || got.Minute() != 0 {
		t.Errorf("row 0 = %s", got)
	}
	if got := s.RowTime(day, 5); got.Hour() != 9 || got.Minute() != 15 {
		t.Errorf("row 5 = %s", got)
	}
	if got := s.RowTime(day, 70); got.Day() != 7 || got.Hour() != 1 || got.Minute() != 30 {
		t.Errorf("row 70 should wrap to the next day, got %s", got)
	}

	tests := []struct {
		hour, minute int
		want         int
	}{
		{8, 0, 0},
		{8, 14, 0},
		{9, 15, 5},
		{7, 59, -1},
		{7, 0, -4},
		{20, 0, 48},
	}
	for _, tc := range tests {
		if got := s.RowOf(time.Date(2025, 1, 6, tc.hour, tc.minute, 0, 0, time.UTC)); got != tc.want {
			t.Errorf("RowOf(%02d:%02d) = %d, want %d", tc.hour, tc.minute, got, tc.want)
		}
	}
}

func TestSnap(t *testing.T) {
	s := New(weekdays, "08:00", "20:00", 15)
	at := func(h, m int) time.Time { return time.Date(2025, 1, 6, h, m, 0, 0, time.UTC) }

	if got := s.Snap(at(10, 23)); !got.Equal(at(10, 15)) {
		t.Errorf("Snap(10:23) = %s", got)
	}
	if got := s.SnapUp(at(10, 23)); !got.Equal(at(10, 30)) {
		t.Errorf("SnapUp(10:23) = %s", got)
	}
	if got := s.SnapUp(at(10, 30)); !got.Equal(at(10, 30)) {
		t.Errorf("SnapUp(10:30) = %s", got)
	}
	if got := s.SnapUp(at(23, 50)); got.Day() != 7 || got.Hour() != 0 {
		t.Errorf("SnapUp(23:50) should roll over to midnight, got %s", got)
	}
}

func TestIsWithinWorkHours(t *testing.T) {
	s := New(weekdays, "09:00", "17:00", 15)

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"monday morning", time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), true},
		{"monday at end", time.Date(2025, 1, 6, 17, 0, 0, 0, time.UTC), false},
		{"sunday", time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.IsWithinWorkHours(tc.t); got != tc.want {
				t.Errorf("IsWithinWorkHours = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFirstFree(t *testing.T) {
	s := New(weekdays, "09:00", "12:00", 15)
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return time.Date(2025, 1, 6, h, m, 0, 0, time.UTC) }
	mk := func(id string, start time.Time, dur int) task.Task {
		tk, err := task.New(id, id, start, dur)
		if err != nil {
			t.Fatal(err)
		}
		return tk
	}

	tasks := []task.Task{
		mk("a", at(9, 0), 60),
		mk("b", at(9, 30), 40), // overlaps a, busy until 10:10
		mk("c", at(11, 0), 30),
	}
	yesterday := day.AddDate(0, 0, -1)

	tests := []struct {
		name      string
		notBefore time.Time
		duration  int
		want      time.Time
		ok        bool
	}{
		{"first gap after merged block", yesterday, 45, at(10, 15), true},
		{"gap too small, use the one after", yesterday, 60, time.Time{}, false},
		{"after last task", at(11, 0), 30, at(11, 30), true},
		{"short task fits before c", at(10, 20), 30, at(10, 30), true},
		{"day already over", day.AddDate(0, 0, 1), 15, time.Time{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.FirstFree(tasks, day, tc.notBefore, tc.duration)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v (got %s)", ok, tc.ok, got)
			}
			if ok && !got.Equal(tc.want) {
				t.Errorf("FirstFree = %s, want %s", got.Format("15:04"), tc.want.Format("15:04"))
			}
		})
	}
}
