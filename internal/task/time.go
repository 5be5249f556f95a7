package task

import (
	"fmt"
	"time"
)

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// Returns 0 for invalid input.
func TimeToMinutes(t string) int {
	if len(t) < 5 {
		return 0
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	return hours*60 + mins
}

// MinutesToTime converts minutes since midnight to "HH:MM" format.
func MinutesToTime(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= MinutesPerDay {
		m = MinutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseClock validates "HH:MM" and returns minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 {
		return 0, ErrInvalidTimeFormat
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return 0, ErrInvalidTimeFormat
	}
	return TimeToMinutes(s), nil
}

// MinutesSinceMidnight returns the wall-clock minutes of t within its day.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// MinutesFrom returns the wall-clock minutes between midnight of day and t.
// The result is negative for times before day and exceeds a day for later dates.
func MinutesFrom(day, t time.Time) int {
	return daysBetween(day, t)*MinutesPerDay + MinutesSinceMidnight(t)
}

// AtMinutes returns the wall-clock time m minutes after midnight of day.
func AtMinutes(day time.Time, m int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, m, 0, 0, day.Location())
}

// AddMinutes adds wall-clock minutes to t.
func AddMinutes(t time.Time, m int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()+m, t.Second(), t.Nanosecond(), t.Location())
}

// WithTimeOf returns the date of day combined with the time of day of clock.
func WithTimeOf(day, clock time.Time) time.Time {
	return AtMinutes(day, MinutesSinceMidnight(clock))
}

// MinutesBetween returns the wall-clock minutes from a to b.
func MinutesBetween(a, b time.Time) int {
	return MinutesFrom(a, b) - MinutesSinceMidnight(a)
}

// SameDay returns true if a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayKey formats the calendar date of t as "YYYY-MM-DD".
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// daysBetween counts calendar days from a to b, ignoring clock and DST.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
