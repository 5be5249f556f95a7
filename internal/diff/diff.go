// Package diff compares two task snapshots and reports what a storage
// layer has to write.
package diff

import (
	"slices"
	"strings"

	"github.com/javiermolinar/timebox/internal/task"
)

// ChangeSet and Change are re-exported for callers that only deal with diffs.
type (
	ChangeSet = task.ChangeSet
	Change    = task.Change
)

// Compute classifies every task of old and new by id.
//
// A task only in new is created, a task only in old is deleted. A task in
// both is updated when its schedule changed: start, duration, all-day flag,
// time flag or the day it belongs to. Text and presentation fields are not
// compared. Every list is sorted by id.
func Compute(old, new []task.Task) ChangeSet {
	before := make(map[string]task.Task, len(old))
	for _, t := range old {
		before[t.ID] = t
	}
	after := make(map[string]task.Task, len(new))
	for _, t := range new {
		after[t.ID] = t
	}

	var cs ChangeSet
	for id, a := range after {
		b, ok := before[id]
		switch {
		case !ok:
			cs.Created = append(cs.Created, a.Clone())
		case Changed(b, a):
			cs.Updated = append(cs.Updated, Change{Before: b.Clone(), After: a.Clone()})
		}
	}
	for id, b := range before {
		if _, ok := after[id]; !ok {
			cs.Deleted = append(cs.Deleted, b.Clone())
		}
	}

	byID := func(a, b task.Task) int { return strings.Compare(a.ID, b.ID) }
	slices.SortFunc(cs.Created, byID)
	slices.SortFunc(cs.Deleted, byID)
	slices.SortFunc(cs.Updated, func(a, b Change) int { return byID(a.After, b.After) })
	return cs
}

// Changed reports whether b and a differ in any scheduling field.
func Changed(b, a task.Task) bool {
	return !b.StartTime.Equal(a.StartTime) ||
		b.DurationMinutes != a.DurationMinutes ||
		b.IsAllDayEvent != a.IsAllDayEvent ||
		b.HasTime != a.HasTime ||
		!task.SameDay(b.StartTime, a.StartTime)
}
