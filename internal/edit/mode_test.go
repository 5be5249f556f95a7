package edit

import (
	"testing"

	"github.com/javiermolinar/timebox/internal/block"
)

func TestParseMode_RoundTrip(t *testing.T) {
	for _, m := range Modes() {
		t.Run(m.String(), func(t *testing.T) {
			got, err := ParseMode(m.String())
			if err != nil {
				t.Fatalf("ParseMode(%q): %v", m, err)
			}
			if got != m {
				t.Errorf("ParseMode(%q) = %s", m, got)
			}
		})
	}

	if _, err := ParseMode("teleport"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if got, err := ParseMode("  Drag-And-Shift-Others "); err != nil || got != ModeDragAndShiftOthers {
		t.Errorf("ParseMode should trim and ignore case, got %s, %v", got, err)
	}
}

func TestModeFor(t *testing.T) {
	tests := []struct {
		gesture Gesture
		policy  block.Policy
		want    Mode
	}{
		{GestureDrag, block.PolicyNone, ModeDrag},
		{GestureDrag, block.PolicyPush, ModeDragAndShiftOthers},
		{GestureDrag, block.PolicyShrink, ModeDragAndShrinkOthers},
		{GestureResize, block.PolicyNone, ModeResize},
		{GestureResize, block.PolicyPush, ModeResizeAndShiftOthers},
		{GestureResize, block.PolicyShrink, ModeResizeAndShrinkOthers},
		{GestureResizeFromTop, block.PolicyNone, ModeResizeFromTop},
		{GestureResizeFromTop, block.PolicyPush, ModeResizeFromTopAndShiftOthers},
		{GestureResizeFromTop, block.PolicyShrink, ModeResizeFromTopAndShrinkOthers},
	}

	for _, tc := range tests {
		t.Run(tc.want.String(), func(t *testing.T) {
			got := ModeFor(tc.gesture, tc.policy)
			if got != tc.want {
				t.Errorf("ModeFor = %s, want %s", got, tc.want)
			}
			if got.Policy() != tc.policy {
				t.Errorf("%s.Policy() = %s, want %s", got, got.Policy(), tc.policy)
			}
		})
	}
}

func TestModeKinds(t *testing.T) {
	for _, m := range Modes() {
		if m.IsDrag() && m.IsResize() {
			t.Errorf("%s is both drag and resize", m)
		}
	}
	for _, m := range []Mode{ModeCreate, ModeSchedule, ModeDelete} {
		if m.IsDrag() || m.IsResize() || m.Policy() != block.PolicyNone {
			t.Errorf("%s should be neither drag nor resize and have no policy", m)
		}
	}
}
