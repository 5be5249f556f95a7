// Package edit runs pointer-driven edits of a task collection.
//
// Transform is the pure projection: baseline, operation and cursor in,
// pending tasks out. Editor owns the baseline and the single active
// operation, and turns a confirmed edit into a change set.
package edit

import (
	"fmt"
	"slices"
	"time"

	"github.com/javiermolinar/timebox/internal/block"
	"github.com/javiermolinar/timebox/internal/dateutil"
	"github.com/javiermolinar/timebox/internal/task"
)

// Settings are the user preferences an edit reads on every tick.
type Settings struct {
	MinimalDurationMinutes int
	DefaultDurationMinutes int
	Policy                 block.Policy // used by hosts to pick modes, see ModeFor
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		MinimalDurationMinutes: 10,
		DefaultDurationMinutes: 30,
		Policy:                 block.PolicyPush,
	}
}

// Operation is the edit under the pointer.
type Operation struct {
	Task task.Task
	Mode Mode
	Day  time.Time // the day container the pointer is in

	// Ghost marks Task as not part of the baseline: a task being created,
	// or an editable copy of a read-only task.
	Ghost bool
}

// Transform returns the tasks as they look with op applied at cursor.
// The baseline is not modified.
//
// The pointer is the time of day of cursor on op.Day. Drags re-date the
// target to op.Day and move its start to the pointer. Resizes move one
// edge of the target to the pointer, which may lie on a later day than the
// target itself. Read-only tasks never move.
//
// Transform panics if the target of a non-ghost operation is not in baseline.
func Transform(baseline []task.Task, op Operation, cursor time.Time, s Settings) []task.Task {
	tasks := task.CloneAll(baseline)
	if op.Ghost {
		tasks = append(tasks, op.Task.Clone())
	}
	idx := slices.IndexFunc(tasks, func(t task.Task) bool { return t.ID == op.Task.ID })
	if idx < 0 {
		panic(fmt.Sprintf("edit: target %q not in baseline", op.Task.ID))
	}

	minDuration := max(s.MinimalDurationMinutes, 0)
	pointer := task.WithTimeOf(op.Day, cursor)

	switch op.Mode {
	case ModeDelete:
		return slices.Delete(tasks, idx, idx+1)

	case ModeSchedule:
		t := tasks[idx]
		if t.DurationMinutes == 0 || t.IsAllDayEvent {
			t.DurationMinutes = s.DefaultDurationMinutes
		}
		t.StartTime = pointer
		t.HasTime = true
		t.IsAllDayEvent = false
		t.DurationMinutes = max(t.DurationMinutes, minDuration)
		tasks[idx] = t
		return tasks

	case ModeDrag, ModeDragAndShiftOthers, ModeDragAndShrinkOthers:
		day := dateutil.TruncateToDay(op.Day)
		coord := task.MinutesFrom(day, pointer)
		policy := op.Mode.Policy()
		if tasks[idx].Day().Equal(day) {
			return editWindow(tasks, idx, dayWindow(day), func(blocks []block.Block, id string) []block.Block {
				return block.Edit(blocks, id, coord, block.EditMove, policy, minDuration)
			}, minDuration)
		}
		// Entering another day: the task arrives there from outside.
		tasks[idx].StartTime = task.WithTimeOf(day, tasks[idx].StartTime)
		return editWindow(tasks, idx, dayWindow(day), func(blocks []block.Block, id string) []block.Block {
			return block.Insert(blocks, id, coord, policy, minDuration)
		}, minDuration)

	case ModeResize, ModeResizeAndShiftOthers, ModeResizeAndShrinkOthers:
		return resize(tasks, idx, pointer, block.EditEnd, op.Mode.Policy(), minDuration)

	case ModeResizeFromTop, ModeResizeFromTopAndShiftOthers, ModeResizeFromTopAndShrinkOthers:
		return resize(tasks, idx, pointer, block.EditStart, op.Mode.Policy(), minDuration)

	case ModeCreate:
		return resize(tasks, idx, pointer, block.EditEnd, block.PolicyNone, minDuration)

	default:
		panic(fmt.Sprintf("edit: unhandled mode %s", op.Mode))
	}
}

// resize moves one edge of the target to pointer. Coordinates count from
// the target's own midnight, and the window stretches over every day
// between the target and the pointer.
func resize(tasks []task.Task, idx int, pointer time.Time, edit block.EditType, policy block.Policy, minDuration int) []task.Task {
	day := tasks[idx].Day()
	coord := task.MinutesFrom(day, pointer)
	iv := tasks[idx].Interval(minDuration)
	w := dayWindow(day).
		extend(coord).
		extend(task.MinutesFrom(day, iv.End) - 1)
	return editWindow(tasks, idx, w, func(blocks []block.Block, id string) []block.Block {
		return block.Edit(blocks, id, coord, edit, policy, minDuration)
	}, minDuration)
}

// window is a run of whole days, as [from, to) minutes from origin's midnight.
type window struct {
	origin   time.Time
	from, to int
}

func dayWindow(day time.Time) window {
	return window{origin: dateutil.TruncateToDay(day), from: 0, to: task.MinutesPerDay}
}

// extend grows w to cover the whole day containing minute m.
func (w window) extend(m int) window {
	dayStart := m - ((m%task.MinutesPerDay)+task.MinutesPerDay)%task.MinutesPerDay
	w.from = min(w.from, dayStart)
	w.to = max(w.to, dayStart+task.MinutesPerDay)
	return w
}

// touches reports whether a timed task is shown on any day of w.
func (w window) touches(t task.Task) bool {
	if !t.IsTimed() {
		return false
	}
	start := task.MinutesFrom(w.origin, t.StartTime)
	return start < w.to && (start >= w.from || start+t.DurationMinutes > w.from)
}

// editWindow runs the block engine over the target and the editable timed
// tasks shown in w, and writes back every block that changed.
func editWindow(tasks []task.Task, target int, w window, run func([]block.Block, string) []block.Block, minDuration int) []task.Task {
	var (
		indexes []int
		blocks  []block.Block
	)
	for i, t := range tasks {
		if i != target && (t.Readonly || !w.touches(t)) {
			continue
		}
		iv := t.Interval(minDuration)
		indexes = append(indexes, i)
		blocks = append(blocks, block.Block{
			ID:    t.ID,
			Start: task.MinutesFrom(w.origin, iv.Start),
			End:   task.MinutesFrom(w.origin, iv.End),
		})
	}

	edited := run(blocks, tasks[target].ID)
	for n, b := range edited {
		if b == blocks[n] {
			continue
		}
		t := &tasks[indexes[n]]
		t.StartTime = task.AtMinutes(w.origin, b.Start)
		t.DurationMinutes = b.Duration()
		t.HasTime = true
	}
	return tasks
}
