package block

import (
	"slices"
	"testing"
)

func fourBlocks() []Block {
	return []Block{
		{ID: "1", Start: 0, End: 10},
		{ID: "2", Start: 10, End: 20},
		{ID: "3", Start: 20, End: 30},
		{ID: "4", Start: 30, End: 40},
	}
}

func assertBlocks(t *testing.T, got, want []Block) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("blocks mismatch\n got: %v\nwant: %v", got, want)
	}
}

func TestReflect(t *testing.T) {
	b := Block{ID: "a", Start: 10, End: 25}

	got := Reflect(b, 30)
	if got.Start != 35 || got.End != 50 {
		t.Errorf("Reflect = %+v, want [35,50)", got)
	}
	if got.Duration() != b.Duration() {
		t.Errorf("reflection changed duration: %d vs %d", got.Duration(), b.Duration())
	}
	if back := Reflect(got, 30); back != b {
		t.Errorf("double reflection = %+v, want %+v", back, b)
	}
}

func TestEdit_MovePushScenario(t *testing.T) {
	got := Edit(fourBlocks(), "2", 20, EditMove, PolicyPush, 5)

	assertBlocks(t, got, []Block{
		{ID: "1", Start: 0, End: 10},
		{ID: "2", Start: 20, End: 30},
		{ID: "3", Start: 30, End: 40},
		{ID: "4", Start: 40, End: 50},
	})
}

func TestEdit_StartPastEndClampsAtMinimum(t *testing.T) {
	got := Edit(fourBlocks(), "2", 40, EditStart, PolicyPush, 5)

	assertBlocks(t, got, []Block{
		{ID: "1", Start: 0, End: 10},
		{ID: "2", Start: 40, End: 45},
		{ID: "3", Start: 45, End: 55},
		{ID: "4", Start: 55, End: 65},
	})
}

func TestEdit_DoesNotMutateInput(t *testing.T) {
	in := fourBlocks()
	_ = Edit(in, "2", 35, EditMove, PolicyShrink, 5)
	assertBlocks(t, in, fourBlocks())
}

func TestEdit_PolicyNone(t *testing.T) {
	got := Edit(fourBlocks(), "2", 25, EditMove, PolicyNone, 5)

	assertBlocks(t, got, []Block{
		{ID: "1", Start: 0, End: 10},
		{ID: "2", Start: 25, End: 35},
		{ID: "3", Start: 20, End: 30},
		{ID: "4", Start: 30, End: 40},
	})
}

func TestEdit_End(t *testing.T) {
	tests := []struct {
		name  string
		coord int
		want  Block
	}{
		{"grow", 28, Block{ID: "2", Start: 10, End: 28}},
		{"shrink", 15, Block{ID: "2", Start: 10, End: 15}},
		{"below minimum moves start up", 12, Block{ID: "2", Start: 7, End: 12}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Edit(fourBlocks(), "2", tc.coord, EditEnd, PolicyNone, 5)
			if got[1] != tc.want {
				t.Errorf("edited block = %+v, want %+v", got[1], tc.want)
			}
		})
	}
}

func TestEdit_EndPushesFollowing(t *testing.T) {
	got := Edit(fourBlocks(), "2", 25, EditEnd, PolicyPush, 5)

	assertBlocks(t, got, []Block{
		{ID: "1", Start: 0, End: 10},
		{ID: "2", Start: 10, End: 25},
		{ID: "3", Start: 25, End: 35},
		{ID: "4", Start: 35, End: 45},
	})
}

func TestEdit_StartPushesPreceding(t *testing.T) {
	got := Edit(fourBlocks(), "3", 5, EditStart, PolicyPush, 5)

	assertBlocks(t, got, []Block{
		{ID: "1", Start: -15, End: -5},
		{ID: "2", Start: -5, End: 5},
		{ID: "3", Start: 5, End: 30},
		{ID: "4", Start: 30, End: 40},
	})
}

func TestEdit_MoveUpPushesPreceding(t *testing.T) {
	got := Edit(fourBlocks(), "3", 5, EditMove, PolicyPush, 5)

	assertBlocks(t, got, []Block{
		{ID: "1", Start: -15, End: -5},
		{ID: "2", Start: -5, End: 5},
		{ID: "3", Start: 5, End: 15},
		{ID: "4", Start: 30, End: 40},
	})
}

func TestEdit_Shrink(t *testing.T) {
	t.Run("neighbor shrinks", func(t *testing.T) {
		got := Edit(fourBlocks(), "2", 24, EditEnd, PolicyShrink, 5)

		assertBlocks(t, got, []Block{
			{ID: "1", Start: 0, End: 10},
			{ID: "2", Start: 10, End: 24},
			{ID: "3", Start: 24, End: 30},
			{ID: "4", Start: 30, End: 40},
		})
	})

	t.Run("neighbor at floor starts moving", func(t *testing.T) {
		got := Edit(fourBlocks(), "2", 28, EditEnd, PolicyShrink, 5)

		assertBlocks(t, got, []Block{
			{ID: "1", Start: 0, End: 10},
			{ID: "2", Start: 10, End: 28},
			{ID: "3", Start: 28, End: 33},
			{ID: "4", Start: 33, End: 40},
		})
	})

	t.Run("shrinking upwards", func(t *testing.T) {
		got := Edit(fourBlocks(), "3", 8, EditStart, PolicyShrink, 5)

		assertBlocks(t, got, []Block{
			{ID: "1", Start: -2, End: 3},
			{ID: "2", Start: 3, End: 8},
			{ID: "3", Start: 8, End: 30},
			{ID: "4", Start: 30, End: 40},
		})
	})
}

func TestEdit_PushConservesDurations(t *testing.T) {
	in := []Block{
		{ID: "a", Start: 0, End: 15},
		{ID: "b", Start: 15, End: 45},
		{ID: "c", Start: 50, End: 55},
		{ID: "d", Start: 60, End: 120},
		{ID: "e", Start: 130, End: 140},
	}

	for coord := -60; coord <= 200; coord += 7 {
		for _, edit := range []EditType{EditMove, EditStart, EditEnd} {
			got := Edit(in, "c", coord, edit, PolicyPush, 5)
			for i, b := range got {
				if b.ID == "c" {
					continue
				}
				if b.Duration() != in[i].Duration() {
					t.Fatalf("coord=%d edit=%s: %s duration %d, want %d", coord, edit, b.ID, b.Duration(), in[i].Duration())
				}
			}
		}
	}
}

func TestEdit_MinimumDurationInvariant(t *testing.T) {
	in := []Block{
		{ID: "a", Start: 0, End: 20},
		{ID: "b", Start: 20, End: 30},
		{ID: "c", Start: 30, End: 60},
		{ID: "d", Start: 60, End: 70},
	}
	const minDuration = 10

	for _, policy := range []Policy{PolicyNone, PolicyPush, PolicyShrink} {
		for _, edit := range []EditType{EditMove, EditStart, EditEnd} {
			for coord := -40; coord <= 120; coord += 3 {
				for _, b := range Edit(in, "b", coord, edit, policy, minDuration) {
					if b.Duration() < minDuration {
						t.Fatalf("policy=%s edit=%s coord=%d: %s has duration %d", policy, edit, coord, b.ID, b.Duration())
					}
				}
			}
		}
	}
}

func TestEdit_ShrinkNeverGoesBelowFloor(t *testing.T) {
	in := fourBlocks()
	for coord := 20; coord <= 80; coord++ {
		got := Edit(in, "2", coord, EditEnd, PolicyShrink, 5)
		for _, b := range got {
			if b.Duration() < 5 {
				t.Fatalf("coord=%d: %s shrank to %d", coord, b.ID, b.Duration())
			}
		}
		if got[2].Duration() > in[2].Duration() {
			t.Fatalf("coord=%d: neighbor grew to %d", coord, got[2].Duration())
		}
	}
}

func TestEdit_InitiallyOverlappingBlocksAreExempt(t *testing.T) {
	in := []Block{
		{ID: "target", Start: 0, End: 30},
		{ID: "meeting", Start: 10, End: 40}, // already overlapping the target
		{ID: "lunch", Start: 40, End: 60},
	}

	got := Edit(in, "target", 20, EditMove, PolicyPush, 5)

	assertBlocks(t, got, []Block{
		{ID: "target", Start: 20, End: 50},
		{ID: "meeting", Start: 10, End: 40},
		{ID: "lunch", Start: 50, End: 70},
	})
}

func TestInsert_ArrivingBlockPushesEveryOverlap(t *testing.T) {
	// The arriving block already sits on the same minutes as "meeting", but
	// it was not there before the edit, so nothing is exempt.
	in := []Block{
		{ID: "meeting", Start: 40, End: 70},
		{ID: "arrival", Start: 40, End: 70},
		{ID: "lunch", Start: 80, End: 100},
	}

	tests := []struct {
		name   string
		coord  int
		policy Policy
		want   []Block
	}{
		{
			name:   "on top pushes forward",
			coord:  40,
			policy: PolicyPush,
			want: []Block{
				{ID: "meeting", Start: 70, End: 100},
				{ID: "arrival", Start: 40, End: 70},
				{ID: "lunch", Start: 100, End: 120},
			},
		},
		{
			name:   "below the start pushes backward",
			coord:  50,
			policy: PolicyPush,
			want: []Block{
				{ID: "meeting", Start: 20, End: 50},
				{ID: "arrival", Start: 50, End: 80},
				{ID: "lunch", Start: 80, End: 100},
			},
		},
		{
			name:   "no policy overlaps",
			coord:  40,
			policy: PolicyNone,
			want: []Block{
				{ID: "meeting", Start: 40, End: 70},
				{ID: "arrival", Start: 40, End: 70},
				{ID: "lunch", Start: 80, End: 100},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Insert(slices.Clone(in), "arrival", tt.coord, tt.policy, 5)
			assertBlocks(t, got, tt.want)
		})
	}
}

func TestEdit_SameMoveKeepsOverlapExemption(t *testing.T) {
	in := []Block{
		{ID: "meeting", Start: 40, End: 70},
		{ID: "arrival", Start: 40, End: 70},
	}

	got := Edit(in, "arrival", 40, EditMove, PolicyPush, 5)

	assertBlocks(t, got, in)
}

func TestEdit_UnknownTargetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown target")
		}
	}()
	Edit(fourBlocks(), "missing", 0, EditMove, PolicyPush, 5)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"push", PolicyPush, false},
		{"SHRINK", PolicyShrink, false},
		{"none", PolicyNone, false},
		{"", PolicyNone, false},
		{"squash", PolicyNone, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePolicy(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParsePolicy(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParsePolicy(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}
