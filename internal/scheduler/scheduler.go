// Package scheduler maps the visible timeline grid to wall-clock times.
//
// The grid covers [dayStart, dayEnd) of each day in rows of step minutes.
// Hosts use it to turn a cursor row into the absolute time the editor
// consumes, and to find a free slot for new or scheduled tasks.
package scheduler

import (
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/timebox/internal/dateutil"
	"github.com/javiermolinar/timebox/internal/task"
)

// Scheduler provides time-aware grid operations.
type Scheduler struct {
	workdays map[string]bool
	dayStart int // minutes since midnight
	dayEnd   int
	step     int
}

// New creates a new Scheduler. dayStart and dayEnd are "HH:MM".
func New(workdays []string, dayStart, dayEnd string, stepMinutes int) *Scheduler {
	wd := make(map[string]bool)
	for _, d := range workdays {
		wd[strings.ToLower(d)] = true
	}
	return &Scheduler{
		workdays: wd,
		dayStart: task.TimeToMinutes(dayStart),
		dayEnd:   task.TimeToMinutes(dayEnd),
		step:     max(stepMinutes, 1),
	}
}

// Step returns the grid step in minutes.
func (s *Scheduler) Step() int {
	return s.step
}

// Rows returns the number of grid rows in a visible day.
func (s *Scheduler) Rows() int {
	return (s.dayEnd - s.dayStart + s.step - 1) / s.step
}

// RowTime returns the time of a grid row on day. Rows past the end of the
// visible window continue into the night and the next day.
func (s *Scheduler) RowTime(day time.Time, row int) time.Time {
	return task.AtMinutes(dateutil.TruncateToDay(day), s.dayStart+row*s.step)
}

// RowOf returns the row containing t, which may be negative or past Rows()
// when t is outside the visible window.
func (s *Scheduler) RowOf(t time.Time) int {
	m := task.MinutesSinceMidnight(t) - s.dayStart
	if m < 0 {
		return -((-m + s.step - 1) / s.step)
	}
	return m / s.step
}

// Snap rounds t down to the grid.
func (s *Scheduler) Snap(t time.Time) time.Time {
	m := task.MinutesSinceMidnight(t)
	return task.AtMinutes(t, m-m%s.step)
}

// SnapUp rounds t up to the grid, keeping it if it is already on it.
func (s *Scheduler) SnapUp(t time.Time) time.Time {
	t = t.Truncate(time.Minute)
	m := task.MinutesSinceMidnight(t)
	if r := m % s.step; r != 0 {
		return task.AtMinutes(t, m+s.step-r)
	}
	return t
}

// AvailableSlot represents an available time window for scheduling.
type AvailableSlot struct {
	Date  time.Time
	Start string // "HH:MM"
	End   string // "HH:MM"
}

// NextAvailableStart returns the next available start time for scheduling.
// If now is before dayStart, returns dayStart of today (if workday) or next workday.
// If now is during work hours, returns now rounded up to the grid.
// If now is after dayEnd, returns dayStart of next workday.
func (s *Scheduler) NextAvailableStart(now time.Time) AvailableSlot {
	nowMin := task.MinutesSinceMidnight(now)

	if s.IsWorkday(now) {
		if nowMin < s.dayStart {
			return s.slot(now, s.dayStart)
		}
		if nowMin < s.dayEnd {
			start := task.MinutesFrom(now, s.SnapUp(now))
			if start >= s.dayEnd {
				return s.nextWorkday(now)
			}
			return s.slot(now, start)
		}
	}

	return s.nextWorkday(now)
}

func (s *Scheduler) slot(day time.Time, start int) AvailableSlot {
	return AvailableSlot{
		Date:  dateutil.TruncateToDay(day),
		Start: task.MinutesToTime(start),
		End:   task.MinutesToTime(s.dayEnd),
	}
}

// nextWorkday finds the next workday starting from the day after the given time.
func (s *Scheduler) nextWorkday(from time.Time) AvailableSlot {
	next := from.AddDate(0, 0, 1)
	for range 7 {
		if s.IsWorkday(next) {
			return s.slot(next, s.dayStart)
		}
		next = next.AddDate(0, 0, 1)
	}
	// No workdays configured: any day will do
	return s.slot(from.AddDate(0, 0, 1), s.dayStart)
}

// IsWorkday returns true if the given time falls on a configured workday.
func (s *Scheduler) IsWorkday(t time.Time) bool {
	weekday := strings.ToLower(t.Weekday().String())
	return s.workdays[weekday]
}

// IsWithinWorkHours returns true if t is on a workday inside the visible window.
func (s *Scheduler) IsWithinWorkHours(t time.Time) bool {
	if !s.IsWorkday(t) {
		return false
	}
	m := task.MinutesSinceMidnight(t)
	return m >= s.dayStart && m < s.dayEnd
}

// DayStart returns the configured day start time.
func (s *Scheduler) DayStart() string {
	return task.MinutesToTime(s.dayStart)
}

// DayEnd returns the configured day end time.
func (s *Scheduler) DayEnd() string {
	return task.MinutesToTime(s.dayEnd)
}

// FirstFree returns the earliest grid time on day, not before notBefore,
// where a task of durationMinutes fits in the visible window without
// overlapping the timed tasks given.
func (s *Scheduler) FirstFree(tasks []task.Task, day, notBefore time.Time, durationMinutes int) (time.Time, bool) {
	day = dateutil.TruncateToDay(day)
	type interval struct{ start, end int }

	var busy []interval
	for _, t := range tasks {
		if !t.IsTimed() {
			continue
		}
		start := task.MinutesFrom(day, t.StartTime)
		end := start + t.DurationMinutes
		if end <= s.dayStart || start >= s.dayEnd {
			continue
		}
		busy = append(busy, interval{start, end})
	}
	slices.SortFunc(busy, func(a, b interval) int { return a.start - b.start })

	// Merge overlapping or adjacent busy blocks so only true gaps remain.
	var merged []interval
	for _, b := range busy {
		if n := len(merged); n > 0 && b.start <= merged[n-1].end {
			merged[n-1].end = max(merged[n-1].end, b.end)
			continue
		}
		merged = append(merged, b)
	}

	cursor := s.dayStart
	if task.SameDay(notBefore, day) {
		cursor = max(cursor, task.MinutesFrom(day, s.SnapUp(notBefore)))
	} else if notBefore.After(day) {
		return time.Time{}, false
	}
	cursor = s.alignUp(cursor)

	for _, b := range merged {
		if b.end <= cursor {
			continue
		}
		if cursor+durationMinutes <= b.start {
			break
		}
		cursor = s.alignUp(max(cursor, b.end))
	}
	if cursor+durationMinutes > s.dayEnd {
		return time.Time{}, false
	}
	return task.AtMinutes(day, cursor), true
}

func (s *Scheduler) alignUp(m int) int {
	if r := m % s.step; r != 0 {
		return m + s.step - r
	}
	return m
}
