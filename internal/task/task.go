// Package task defines the core domain types for timebox.
package task

import (
	"errors"
	"strings"
	"time"

	"github.com/javiermolinar/timebox/internal/dateutil"
)

// Validation errors.
var (
	ErrEmptyID           = errors.New("task id cannot be empty")
	ErrEmptyText         = errors.New("task text cannot be empty")
	ErrNegativeDuration  = errors.New("duration cannot be negative")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
)

// ErrTaskNotFound is returned when no task has the requested id.
var ErrTaskNotFound = errors.New("task not found")

// MinutesPerDay is 24 hours * 60 minutes.
const MinutesPerDay = 24 * 60

// Location points at the text a task was read from.
type Location struct {
	Path    string
	Line    int
	EndLine int
}

// Placing is the horizontal lane a task occupies when rendered next to
// overlapping tasks. Presentation only, never persisted.
type Placing struct {
	XOffsetPercent float64
	WidthPercent   float64
}

// Task is a single editable item on the timeline.
//
// A scheduled task either has a time of day (HasTime) or is an all-day
// event (IsAllDayEvent), never both. A task with neither is unscheduled:
// StartTime only carries the date of the note it lives in.
type Task struct {
	ID              string
	StartTime       time.Time
	HasTime         bool
	DurationMinutes int
	IsAllDayEvent   bool
	Location        *Location // nil until persisted
	Text            string
	FirstLineText   string
	Readonly        bool // sourced from a read-only feed

	Placing   Placing
	RenderKey string
}

// New creates a timed task starting at start.
func New(id, text string, start time.Time, durationMinutes int) (Task, error) {
	if err := validate(id, text, durationMinutes); err != nil {
		return Task{}, err
	}
	return Task{
		ID:              id,
		StartTime:       start.Truncate(time.Minute),
		HasTime:         true,
		DurationMinutes: durationMinutes,
		Text:            text,
		FirstLineText:   firstLine(text),
	}, nil
}

// NewAllDay creates an all-day event spanning days calendar days.
func NewAllDay(id, text string, date time.Time, days int) (Task, error) {
	if days < 1 {
		days = 1
	}
	if err := validate(id, text, 0); err != nil {
		return Task{}, err
	}
	return Task{
		ID:              id,
		StartTime:       dateutil.TruncateToDay(date),
		DurationMinutes: days * MinutesPerDay,
		IsAllDayEvent:   true,
		Text:            text,
		FirstLineText:   firstLine(text),
	}, nil
}

// NewUnscheduled creates a task without a time of day on the given date.
func NewUnscheduled(id, text string, date time.Time, durationMinutes int) (Task, error) {
	if err := validate(id, text, durationMinutes); err != nil {
		return Task{}, err
	}
	return Task{
		ID:              id,
		StartTime:       dateutil.TruncateToDay(date),
		DurationMinutes: durationMinutes,
		Text:            text,
		FirstLineText:   firstLine(text),
	}, nil
}

func validate(id, text string, durationMinutes int) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if durationMinutes < 0 {
		return ErrNegativeDuration
	}
	return nil
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(line)
}

// IsTimed returns true if the task sits on the time axis.
func (t Task) IsTimed() bool {
	return t.HasTime && !t.IsAllDayEvent
}

// IsUnscheduled returns true if the task has neither a time nor an all-day flag.
func (t Task) IsUnscheduled() bool {
	return !t.HasTime && !t.IsAllDayEvent
}

// Day returns the date the task belongs to (midnight, task location).
func (t Task) Day() time.Time {
	return dateutil.TruncateToDay(t.StartTime)
}

// End returns the wall-clock end of the task.
func (t Task) End() time.Time {
	return AddMinutes(t.StartTime, t.DurationMinutes)
}

// Interval returns the task's time range with the duration floored at minDuration.
func (t Task) Interval(minDuration int) Interval {
	return Interval{
		Start: t.StartTime,
		End:   AddMinutes(t.StartTime, max(t.DurationMinutes, minDuration)),
	}
}

// Key returns the render key, falling back to the id.
func (t Task) Key() string {
	if t.RenderKey != "" {
		return t.RenderKey
	}
	return t.ID
}

// Clone returns a copy that shares nothing mutable with t.
func (t Task) Clone() Task {
	c := t
	if t.Location != nil {
		loc := *t.Location
		c.Location = &loc
	}
	return c
}

// Find returns the task with the given id.
func Find(tasks []Task, id string) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// CloneAll returns a deep copy of tasks.
func CloneAll(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
