package task

import (
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/timebox/internal/dateutil"
)

// Truncation marks the side where an all-day task was cut by a date range.
type Truncation string

const (
	TruncatedLeft  Truncation = "left"
	TruncatedRight Truncation = "right"
)

// RangeTask is an all-day task clipped to a visible date range.
type RangeTask struct {
	Task      Task
	Offset    int // days from the range start
	Span      int // visible days
	Truncated []Truncation
}

// IsTruncated reports whether the task continues past the given side.
func (r RangeTask) IsTruncated(side Truncation) bool {
	return slices.Contains(r.Truncated, side)
}

// SpanDays returns how many calendar days an all-day task covers.
func (t Task) SpanDays() int {
	days := (t.DurationMinutes + MinutesPerDay - 1) / MinutesPerDay
	return max(days, 1)
}

// AllDayInRange returns the all-day tasks visible between from and to
// (inclusive dates), clipped to the range and flagged where cut.
func AllDayInRange(tasks []Task, from, to time.Time) []RangeTask {
	first := dateutil.TruncateToDay(from)
	last := dateutil.TruncateToDay(to)
	if last.Before(first) {
		return nil
	}
	rangeDays := daysBetween(first, last) + 1

	var result []RangeTask
	for _, t := range tasks {
		if !t.IsAllDayEvent {
			continue
		}
		startOffset := daysBetween(first, t.StartTime)
		endOffset := startOffset + t.SpanDays() // exclusive
		if endOffset <= 0 || startOffset >= rangeDays {
			continue
		}

		rt := RangeTask{Task: t.Clone()}
		visibleStart := max(startOffset, 0)
		visibleEnd := min(endOffset, rangeDays)
		if startOffset < 0 {
			rt.Truncated = append(rt.Truncated, TruncatedLeft)
		}
		if endOffset > rangeDays {
			rt.Truncated = append(rt.Truncated, TruncatedRight)
		}
		rt.Offset = visibleStart
		rt.Span = visibleEnd - visibleStart
		result = append(result, rt)
	}

	slices.SortStableFunc(result, func(a, b RangeTask) int {
		if a.Offset != b.Offset {
			return a.Offset - b.Offset
		}
		return strings.Compare(a.Task.ID, b.Task.ID)
	})
	return result
}
