package edit

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/timebox/internal/block"
)

// Mode is the kind of edit in progress.
type Mode int

const (
	ModeDrag Mode = iota
	ModeDragAndShiftOthers
	ModeDragAndShrinkOthers
	ModeResize
	ModeResizeAndShiftOthers
	ModeResizeAndShrinkOthers
	ModeResizeFromTop
	ModeResizeFromTopAndShiftOthers
	ModeResizeFromTopAndShrinkOthers
	ModeCreate
	ModeSchedule
	ModeDelete
)

var modeNames = [...]string{
	ModeDrag:                         "drag",
	ModeDragAndShiftOthers:           "drag-and-shift-others",
	ModeDragAndShrinkOthers:          "drag-and-shrink-others",
	ModeResize:                       "resize",
	ModeResizeAndShiftOthers:         "resize-and-shift-others",
	ModeResizeAndShrinkOthers:        "resize-and-shrink-others",
	ModeResizeFromTop:                "resize-from-top",
	ModeResizeFromTopAndShiftOthers:  "resize-from-top-and-shift-others",
	ModeResizeFromTopAndShrinkOthers: "resize-from-top-and-shrink-others",
	ModeCreate:                       "create",
	ModeSchedule:                     "schedule",
	ModeDelete:                       "delete",
}

// Modes lists every mode in declaration order.
func Modes() []Mode {
	modes := make([]Mode, len(modeNames))
	for i := range modeNames {
		modes[i] = Mode(i)
	}
	return modes
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses the kebab-case name of a mode.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown edit mode %q", s)
}

// IsDrag returns true for the three drag modes.
func (m Mode) IsDrag() bool {
	return m == ModeDrag || m == ModeDragAndShiftOthers || m == ModeDragAndShrinkOthers
}

// IsResize returns true for every resize mode, from either edge.
func (m Mode) IsResize() bool {
	switch m {
	case ModeResize, ModeResizeAndShiftOthers, ModeResizeAndShrinkOthers,
		ModeResizeFromTop, ModeResizeFromTopAndShiftOthers, ModeResizeFromTopAndShrinkOthers:
		return true
	}
	return false
}

// Policy returns how neighbors react to the edit.
func (m Mode) Policy() block.Policy {
	switch m {
	case ModeDragAndShiftOthers, ModeResizeAndShiftOthers, ModeResizeFromTopAndShiftOthers:
		return block.PolicyPush
	case ModeDragAndShrinkOthers, ModeResizeAndShrinkOthers, ModeResizeFromTopAndShrinkOthers:
		return block.PolicyShrink
	default:
		return block.PolicyNone
	}
}

// Gesture is the pointer action that starts an edit, before a neighbor
// policy is chosen.
type Gesture int

const (
	GestureDrag Gesture = iota
	GestureResize
	GestureResizeFromTop
)

// ModeFor combines a gesture with a neighbor policy.
func ModeFor(g Gesture, p block.Policy) Mode {
	var base Mode
	switch g {
	case GestureDrag:
		base = ModeDrag
	case GestureResize:
		base = ModeResize
	case GestureResizeFromTop:
		base = ModeResizeFromTop
	default:
		panic(fmt.Sprintf("edit: unknown gesture %d", int(g)))
	}

	switch p {
	case block.PolicyPush:
		return base + 1
	case block.PolicyShrink:
		return base + 2
	default:
		return base
	}
}
