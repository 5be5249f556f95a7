package task

import (
	"testing"
	"time"
)

func mustNew(t *testing.T, id string, start time.Time, duration int) Task {
	t.Helper()
	tsk, err := New(id, "task "+id, start, duration)
	if err != nil {
		t.Fatalf("creating %s: %v", id, err)
	}
	return tsk
}

func TestSplitAtMidnight(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []int // chunk lengths in minutes
	}{
		{"same day", date(6, 9, 0), date(6, 10, 0), []int{60}},
		{"ends at midnight", date(6, 23, 0), date(7, 0, 0), []int{60}},
		{"crosses midnight", date(6, 23, 0), date(7, 1, 0), []int{59, 60}},
		{"spans a full day", date(6, 23, 0), date(8, 1, 0), []int{59, 1439, 60}},
		{"empty", date(6, 9, 0), date(6, 9, 0), []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitAtMidnight(tt.start, tt.end)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d chunks, want %d", len(got), len(tt.want))
			}
			for i, ch := range got {
				if ch.Minutes() != tt.want[i] {
					t.Errorf("chunk %d: %d minutes, want %d", i, ch.Minutes(), tt.want[i])
				}
			}
			if !got[0].Start.Equal(tt.start) || !got[len(got)-1].End.Equal(tt.end) {
				t.Error("chunks do not cover the interval")
			}
		})
	}
}

func TestSplitTask(t *testing.T) {
	late := mustNew(t, "late", date(6, 23, 0), 120)
	chunks := SplitTask(late)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}

	first, second := chunks[0], chunks[1]
	if !first.StartTime.Equal(date(6, 23, 0)) || first.DurationMinutes != 59 {
		t.Errorf("first chunk = %v +%d", first.StartTime, first.DurationMinutes)
	}
	if !second.StartTime.Equal(date(7, 0, 0)) || second.DurationMinutes != 60 {
		t.Errorf("second chunk = %v +%d", second.StartTime, second.DurationMinutes)
	}
	if first.ID != "late" || second.ID != "late" {
		t.Error("chunks must keep the task id")
	}
	if first.RenderKey != "late@2025-01-06" || second.RenderKey != "late@2025-01-07" {
		t.Errorf("render keys = %q, %q", first.RenderKey, second.RenderKey)
	}

	single := SplitTask(mustNew(t, "a", date(6, 9, 0), 30))
	if len(single) != 1 || single[0].RenderKey != "a" {
		t.Errorf("single chunk = %+v", single)
	}
}

func TestGroupByDay(t *testing.T) {
	allDay, err := NewAllDay("h", "Holiday", date(6, 0, 0), 1)
	if err != nil {
		t.Fatal(err)
	}
	todo, err := NewUnscheduled("u", "Someday", date(6, 0, 0), 0)
	if err != nil {
		t.Fatal(err)
	}
	tasks := []Task{
		mustNew(t, "b", date(6, 14, 0), 30),
		mustNew(t, "a", date(6, 9, 0), 60),
		mustNew(t, "late", date(6, 23, 0), 120),
		allDay,
		todo,
	}

	days := GroupByDay(tasks)

	monday := days.Get(date(6, 0, 0))
	if len(monday.WithTime) != 3 {
		t.Fatalf("monday has %d timed chunks, want 3", len(monday.WithTime))
	}
	wantOrder := []string{"a", "b", "late@2025-01-06"}
	for i, key := range wantOrder {
		if monday.WithTime[i].Key() != key {
			t.Errorf("position %d: %q, want %q", i, monday.WithTime[i].Key(), key)
		}
	}
	if len(monday.NoTime) != 2 {
		t.Errorf("monday has %d untimed tasks, want 2", len(monday.NoTime))
	}

	tuesday := days.Get(date(7, 0, 0))
	if len(tuesday.WithTime) != 1 || tuesday.WithTime[0].DurationMinutes != 60 {
		t.Errorf("tuesday = %+v", tuesday.WithTime)
	}

	empty := days.Get(date(9, 12, 0))
	if len(empty.WithTime) != 0 || !empty.Date.Equal(date(9, 0, 0)) {
		t.Errorf("empty bucket = %+v", empty)
	}
}

func TestStats(t *testing.T) {
	allDay, err := NewAllDay("h", "Holiday", date(6, 0, 0), 1)
	if err != nil {
		t.Fatal(err)
	}
	todo, err := NewUnscheduled("u", "Someday", date(6, 0, 0), 0)
	if err != nil {
		t.Fatal(err)
	}
	days := GroupByDay([]Task{
		mustNew(t, "a", date(6, 9, 0), 60),
		mustNew(t, "b", date(6, 10, 0), 45),
		allDay,
		todo,
	})

	got := days.Get(date(6, 0, 0)).Stats()
	want := DayStats{ScheduledMinutes: 105, TimedBlocks: 2, AllDayEvents: 1, Unscheduled: 1}
	if got != want {
		t.Errorf("Stats = %+v, want %+v", got, want)
	}
}

func TestAllDayInRange(t *testing.T) {
	mk := func(id string, day, span int) Task {
		tsk, err := NewAllDay(id, "event "+id, date(day, 0, 0), span)
		if err != nil {
			t.Fatal(err)
		}
		return tsk
	}
	tasks := []Task{
		mk("before", 1, 2),
		mk("left", 4, 3),
		mk("inside", 7, 1),
		mk("right", 8, 5),
		mk("after", 12, 1),
		mustNew(t, "timed", date(7, 9, 0), 60),
	}

	got := AllDayInRange(tasks, date(5, 0, 0), date(9, 0, 0))

	want := []struct {
		id     string
		offset int
		span   int
		left   bool
		right  bool
	}{
		{"left", 0, 2, true, false},
		{"inside", 2, 1, false, false},
		{"right", 3, 2, false, true},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(got), len(want))
	}
	for i, w := range want {
		r := got[i]
		if r.Task.ID != w.id || r.Offset != w.offset || r.Span != w.span {
			t.Errorf("%d: got %s offset %d span %d, want %s offset %d span %d",
				i, r.Task.ID, r.Offset, r.Span, w.id, w.offset, w.span)
		}
		if r.IsTruncated(TruncatedLeft) != w.left || r.IsTruncated(TruncatedRight) != w.right {
			t.Errorf("%s: truncation %v", w.id, r.Truncated)
		}
	}

	if AllDayInRange(tasks, date(9, 0, 0), date(5, 0, 0)) != nil {
		t.Error("an inverted range should be empty")
	}
}
