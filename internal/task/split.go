package task

import "time"

// Interval is a wall-clock time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Minutes returns the wall-clock length of the interval.
func (i Interval) Minutes() int {
	return MinutesBetween(i.Start, i.End)
}

// SplitAtMidnight cuts [start, end) into one interval per calendar day.
// A chunk that continues on the next day ends at 23:59 of its own day and
// the continuation starts at 00:00. An interval ending exactly at midnight
// is not split.
func SplitAtMidnight(start, end time.Time) []Interval {
	lastDay := AtMinutes(end, 0)
	if end.Equal(lastDay) && end.After(start) {
		lastDay = lastDay.AddDate(0, 0, -1)
	}

	var chunks []Interval
	cur := start
	for daysBetween(cur, lastDay) > 0 {
		chunks = append(chunks, Interval{Start: cur, End: AtMinutes(cur, MinutesPerDay-1)})
		cur = AtMinutes(cur, MinutesPerDay)
	}
	return append(chunks, Interval{Start: cur, End: end})
}

// SplitTask returns the per-day render chunks of a timed task.
// Chunks share the task id; the render key gets the chunk date appended
// when the task spans more than one day.
func SplitTask(t Task) []Task {
	if !t.IsTimed() {
		c := t.Clone()
		c.RenderKey = t.ID
		return []Task{c}
	}

	chunks := SplitAtMidnight(t.StartTime, t.End())
	out := make([]Task, 0, len(chunks))
	for _, ch := range chunks {
		c := t.Clone()
		c.StartTime = ch.Start
		c.DurationMinutes = ch.Minutes()
		c.RenderKey = t.ID
		if len(chunks) > 1 {
			c.RenderKey = t.ID + "@" + DayKey(ch.Start)
		}
		out = append(out, c)
	}
	return out
}
