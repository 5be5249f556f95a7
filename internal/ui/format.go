package ui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/javiermolinar/timebox/internal/dateutil"
	"github.com/javiermolinar/timebox/internal/placing"
	"github.com/javiermolinar/timebox/internal/task"
)

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// shortID returns the first eight characters of an id, enough to tell
// uuids apart on screen.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// formatSpan prints a timed task as "HH:MM-HH:MM", adding "+N" when the
// end falls N days after the start.
func formatSpan(t task.Task) string {
	end := t.End()
	span := fmt.Sprintf("%s-%s", t.StartTime.Format("15:04"), end.Format("15:04"))
	if days := int(math.Round(dateutil.TruncateToDay(end).Sub(t.Day()).Hours() / 24)); days > 0 {
		span += fmt.Sprintf("+%d", days)
	}
	return span
}

// formatWhen describes where a task sits on the timeline.
func formatWhen(t task.Task) string {
	switch {
	case t.IsAllDayEvent:
		return fmt.Sprintf("%s all day (%dd)", t.StartTime.Format("Mon Jan 2"), t.SpanDays())
	case t.HasTime:
		return fmt.Sprintf("%s %s", t.StartTime.Format("Mon Jan 2"), formatSpan(t))
	default:
		return t.StartTime.Format("Mon Jan 2") + " unscheduled"
	}
}

// parseWhen parses "YYYY-MM-DD HH:MM" or a bare "HH:MM" on day.
func parseWhen(s string, day time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if m, err := task.ParseClock(s); err == nil {
		return task.AtMinutes(dateutil.TruncateToDay(day), m), nil
	}
	t, err := dateutil.ParseDateTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use HH:MM or 'YYYY-MM-DD HH:MM'", s)
	}
	return t, nil
}

// laneMarker shows which lane of how many a placed task occupies, or
// nothing when it has the full width.
func laneMarker(p task.Placing) string {
	if p.WidthPercent <= 0 || p.WidthPercent >= 100 {
		return ""
	}
	lanes := int(math.Round(100 / p.WidthPercent))
	lane := int(math.Round(p.XOffsetPercent/p.WidthPercent)) + 1
	return fmt.Sprintf("[%d/%d]", lane, lanes)
}

// allDayBar draws an all-day task over a range of days, one cell per day,
// with arrows where the task continues outside the range.
func allDayBar(rt task.RangeTask, days int) string {
	var b strings.Builder
	if rt.IsTruncated(task.TruncatedLeft) {
		b.WriteString("◀")
	} else {
		b.WriteString(" ")
	}
	for d := range days {
		if d >= rt.Offset && d < rt.Offset+rt.Span {
			b.WriteString("███")
		} else {
			b.WriteString("···")
		}
	}
	if rt.IsTruncated(task.TruncatedRight) {
		b.WriteString("▶")
	} else {
		b.WriteString(" ")
	}
	return b.String()
}

// printTaskRow prints a single timed task row.
func printTaskRow(w io.Writer, t task.Task, maxTextWidth int) {
	span := fmt.Sprintf("%-13s", formatSpan(t))
	lane := fmt.Sprintf("%-5s", laneMarker(t.Placing))
	line := fmt.Sprintf("  %s  %s  %s  %s", formatTimed(span), formatMuted(shortID(t.ID)), lane, truncate(t.FirstLineText, maxTextWidth))
	if t.Readonly {
		line += formatMuted(" (read-only)")
	}
	fmt.Fprintln(w, line)
}

// printChangeSet prints what an edit did, or would do when dryRun is set.
func printChangeSet(w io.Writer, cs task.ChangeSet, dryRun bool) {
	if cs.Empty() {
		fmt.Fprintln(w, "Nothing changed.")
		return
	}
	for _, t := range cs.Created {
		fmt.Fprintf(w, "%s %s  %s  %s\n", formatCreated("+ created"), shortID(t.ID), formatWhen(t), t.FirstLineText)
	}
	for _, c := range cs.Updated {
		fmt.Fprintf(w, "%s %s  %s → %s  %s\n", formatUpdated("~ updated"), shortID(c.After.ID), formatWhen(c.Before), formatWhen(c.After), c.After.FirstLineText)
	}
	for _, t := range cs.Deleted {
		fmt.Fprintf(w, "%s %s  %s  %s\n", formatDeleted("- deleted"), shortID(t.ID), formatWhen(t), t.FirstLineText)
	}
	if dryRun {
		fmt.Fprintln(w, formatMuted("(dry run, nothing written)"))
	}
}

// printDayStats prints the summary line below a day.
func printDayStats(w io.Writer, bucket task.DayBucket) {
	stats := bucket.Stats()
	line := fmt.Sprintf("%d blocks, %s scheduled, %d all-day, %d unscheduled",
		stats.TimedBlocks, FormatDuration(stats.ScheduledMinutes), stats.AllDayEvents, stats.Unscheduled)
	if placing.Overlapping(bucket.WithTime) {
		line += ", overlapping blocks"
	}
	fmt.Fprintf(w, "  %s\n", formatMuted(line))
}
