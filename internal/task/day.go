package task

import (
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/timebox/internal/dateutil"
)

// DayBucket holds the tasks displayed for a single date.
type DayBucket struct {
	Date     time.Time
	WithTime []Task // sorted by start time, midnight-crossing tasks split
	NoTime   []Task // all-day events and unscheduled tasks
}

// Days maps "YYYY-MM-DD" to the bucket for that date.
type Days map[string]DayBucket

// GroupByDay groups tasks into day buckets by the date of their start time.
// Timed tasks crossing midnight contribute one chunk to every day they touch.
func GroupByDay(tasks []Task) Days {
	days := make(Days)
	for _, t := range tasks {
		if !t.IsTimed() {
			key := DayKey(t.StartTime)
			b := days.bucket(key, t.StartTime)
			c := t.Clone()
			c.RenderKey = t.ID
			b.NoTime = append(b.NoTime, c)
			days[key] = b
			continue
		}
		for _, chunk := range SplitTask(t) {
			key := DayKey(chunk.StartTime)
			b := days.bucket(key, chunk.StartTime)
			b.WithTime = append(b.WithTime, chunk)
			days[key] = b
		}
	}

	for key, b := range days {
		SortByStart(b.WithTime)
		slices.SortStableFunc(b.NoTime, func(a, b Task) int {
			return strings.Compare(a.ID, b.ID)
		})
		days[key] = b
	}
	return days
}

func (d Days) bucket(key string, date time.Time) DayBucket {
	if b, ok := d[key]; ok {
		return b
	}
	return DayBucket{Date: dateutil.TruncateToDay(date)}
}

// Get returns the bucket for date, empty if nothing is scheduled.
func (d Days) Get(date time.Time) DayBucket {
	if b, ok := d[DayKey(date)]; ok {
		return b
	}
	return DayBucket{Date: dateutil.TruncateToDay(date)}
}

// SortByStart sorts tasks by start time, breaking ties by render key.
func SortByStart(tasks []Task) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return strings.Compare(a.Key(), b.Key())
	})
}

// DayStats holds statistics for a single day.
type DayStats struct {
	ScheduledMinutes int
	TimedBlocks      int
	AllDayEvents     int
	Unscheduled      int
}

// Stats calculates statistics for the bucket.
func (b DayBucket) Stats() DayStats {
	var stats DayStats
	for _, t := range b.WithTime {
		stats.TimedBlocks++
		stats.ScheduledMinutes += t.DurationMinutes
	}
	for _, t := range b.NoTime {
		if t.IsAllDayEvent {
			stats.AllDayEvents++
		} else {
			stats.Unscheduled++
		}
	}
	return stats
}
