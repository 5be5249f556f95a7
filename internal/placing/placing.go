// Package placing lays out overlapping timed tasks side by side.
package placing

import (
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/timebox/internal/task"
)

// Place assigns horizontal lanes to the timed tasks of one day. Tasks that
// overlap nobody get the full width. Tasks in an overlap cluster share the
// width equally, one column each.
//
// The result is a new slice in input order; tasks are not modified. Running
// Place on its own output yields the same placing.
func Place(tasks []task.Task) []task.Task {
	out := task.CloneAll(tasks)
	if len(out) == 0 {
		return out
	}

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := out[a].StartTime.Compare(out[b].StartTime); c != 0 {
			return c
		}
		return strings.Compare(out[a].Key(), out[b].Key())
	})

	var cluster []int
	var clusterEnd time.Time
	for _, i := range order {
		if len(cluster) > 0 && !out[i].StartTime.Before(clusterEnd) {
			assignColumns(out, cluster)
			cluster = cluster[:0]
		}
		if len(cluster) == 0 || out[i].End().After(clusterEnd) {
			clusterEnd = out[i].End()
		}
		cluster = append(cluster, i)
	}
	assignColumns(out, cluster)
	return out
}

// assignColumns puts each task of a cluster, already in start order, into
// the first column whose last task has ended.
func assignColumns(tasks []task.Task, cluster []int) {
	var columnEnds []time.Time
	column := make([]int, len(cluster))
	for n, i := range cluster {
		col := slices.IndexFunc(columnEnds, func(end time.Time) bool {
			return !end.After(tasks[i].StartTime)
		})
		if col < 0 {
			col = len(columnEnds)
			columnEnds = append(columnEnds, time.Time{})
		}
		columnEnds[col] = tasks[i].End()
		column[n] = col
	}

	width := 100 / float64(len(columnEnds))
	for n, i := range cluster {
		tasks[i].Placing = task.Placing{
			XOffsetPercent: float64(column[n]) * width,
			WidthPercent:   width,
		}
	}
}

// Overlapping reports whether any two tasks in the list overlap in time.
func Overlapping(tasks []task.Task) bool {
	for _, t := range Place(tasks) {
		if t.Placing.WidthPercent < 100 {
			return true
		}
	}
	return false
}
