// Package block implements interval editing on a one-dimensional time axis.
//
// A Block is the minimal projection of a task: an id and a [Start, End)
// range in minutes from some reference midnight. Edit moves or resizes one
// block and lets its neighbors react according to a Policy.
package block

import (
	"fmt"
	"slices"
	"strings"
)

// Block is a half-open [Start, End) range in minutes.
type Block struct {
	ID    string
	Start int
	End   int
}

// Duration returns the length of the block in minutes.
func (b Block) Duration() int {
	return b.End - b.Start
}

// Overlaps returns true if the two blocks share at least one minute.
func (b Block) Overlaps(o Block) bool {
	return b.Start < o.End && o.Start < b.End
}

// Reflect mirrors b around pivot. Reflecting twice returns the original block.
func Reflect(b Block, pivot int) Block {
	return Block{ID: b.ID, Start: 2*pivot - b.End, End: 2*pivot - b.Start}
}

// ReflectAll mirrors every block around pivot into a new slice.
func ReflectAll(blocks []Block, pivot int) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = Reflect(b, pivot)
	}
	return out
}

// EditType says which part of the block follows the pointer.
type EditType int

const (
	EditMove  EditType = iota // both edges shift
	EditStart                 // top edge moves, bottom stays
	EditEnd                   // bottom edge moves, top stays
)

func (e EditType) String() string {
	switch e {
	case EditMove:
		return "move"
	case EditStart:
		return "start"
	case EditEnd:
		return "end"
	default:
		return fmt.Sprintf("EditType(%d)", int(e))
	}
}

// Policy decides what happens to neighbors the edited block runs into.
type Policy int

const (
	PolicyNone   Policy = iota // neighbors stay where they are
	PolicyPush                 // neighbors move, keeping their duration
	PolicyShrink               // neighbors shrink to the floor, then move
)

// ParsePolicy parses "none", "push" or "shrink".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return PolicyNone, nil
	case "push":
		return PolicyPush, nil
	case "shrink":
		return PolicyShrink, nil
	default:
		return PolicyNone, fmt.Errorf("unknown policy %q (want none, push or shrink)", s)
	}
}

func (p Policy) String() string {
	switch p {
	case PolicyNone:
		return "none"
	case PolicyPush:
		return "push"
	case PolicyShrink:
		return "shrink"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Edit applies one edit to the block identified by id and returns the new
// position of every block, in input order. The input is not modified.
//
// coord is the pointer position in the same unit as the blocks. Durations
// never drop below minDuration. Blocks that already overlapped a block
// before the edit are never displaced by it.
//
// Edit panics if id is not among blocks; ids must be unique.
func Edit(blocks []Block, id string, coord int, edit EditType, policy Policy, minDuration int) []Block {
	idx := indexOf(blocks, id)
	minDuration = max(minDuration, 0)
	original := blocks[idx]
	edited := applyEdit(original, coord, edit, minDuration)
	return propagate(blocks, idx, &original, edited, coord, policy, minDuration)
}

// Insert moves the block identified by id to coord as a block arriving from
// outside the set, such as a task dragged in from another day. Its position
// in blocks is ignored: it overlapped nothing before, and the other blocks
// are ordered around its new start.
//
// Insert panics if id is not among blocks.
func Insert(blocks []Block, id string, coord int, policy Policy, minDuration int) []Block {
	idx := indexOf(blocks, id)
	minDuration = max(minDuration, 0)
	edited := applyEdit(blocks[idx], coord, EditMove, minDuration)
	return propagate(blocks, idx, nil, edited, coord, policy, minDuration)
}

func indexOf(blocks []Block, id string) int {
	idx := slices.IndexFunc(blocks, func(b Block) bool { return b.ID == id })
	if idx < 0 {
		panic(fmt.Sprintf("block: edit target %q not found", id))
	}
	return idx
}

// propagate lets the neighbors of blocks[idx] react to its move from
// original to edited. Blocks starting at or after the original start follow
// it, the rest precede it. A nil original means the block was not in the
// set before: it overlapped nothing, and edited decides the order.
func propagate(blocks []Block, idx int, original *Block, edited Block, coord int, policy Policy, minDuration int) []Block {
	result := slices.Clone(blocks)
	result[idx] = edited
	if policy == PolicyNone {
		return result
	}

	initial := make(map[string]Block, len(blocks))
	for i, b := range blocks {
		if i != idx {
			initial[b.ID] = b
		}
	}
	pivot := edited.Start
	if original != nil {
		initial[original.ID] = *original
		pivot = original.Start
	}
	p := propagator{initial: initial, policy: policy, minDuration: minDuration}

	var following, preceding []Block
	for i, b := range blocks {
		if i == idx {
			continue
		}
		if b.Start >= pivot {
			following = append(following, b)
		} else {
			preceding = append(preceding, b)
		}
	}

	updated := p.forward(edited, following)
	mirrored := p.forward(Reflect(edited, coord), ReflectAll(preceding, coord))
	updated = append(updated, ReflectAll(mirrored, coord)...)

	byID := make(map[string]Block, len(updated))
	for _, b := range updated {
		byID[b.ID] = b
	}
	for i, b := range result {
		if u, ok := byID[b.ID]; ok && i != idx {
			result[i] = u
		}
	}
	return result
}

// applyEdit moves the target itself. End edits run through the start edit
// on the mirrored block so both directions share one clamping rule.
func applyEdit(b Block, coord int, edit EditType, minDuration int) Block {
	switch edit {
	case EditMove:
		duration := max(b.Duration(), minDuration)
		return Block{ID: b.ID, Start: coord, End: coord + duration}
	case EditStart:
		return editStart(b, coord, minDuration)
	case EditEnd:
		return Reflect(editStart(Reflect(b, coord), coord, minDuration), coord)
	default:
		panic(fmt.Sprintf("block: unknown edit type %d", int(edit)))
	}
}

// editStart moves the start edge to coord, pushing the end when the block
// would get shorter than minDuration.
func editStart(b Block, coord int, minDuration int) Block {
	return Block{ID: b.ID, Start: coord, End: max(b.End, coord+minDuration)}
}

type propagator struct {
	initial     map[string]Block
	policy      Policy
	minDuration int
}

// forward walks blocks in start order and moves each one so it starts no
// earlier than the end of every block processed before it. Order is kept:
// a block the pusher jumped over still ends up after it. Blocks only ever
// move towards later minutes here; the backward direction is handled by
// reflecting the input.
func (p propagator) forward(pusher Block, blocks []Block) []Block {
	ordered := slices.Clone(blocks)
	slices.SortStableFunc(ordered, func(a, b Block) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return strings.Compare(a.ID, b.ID)
	})

	processed := []Block{pusher}
	for i, cur := range ordered {
		for moved := true; moved; {
			moved = false
			for _, prev := range processed {
				if cur.Start >= prev.End || p.initiallyOverlapping(prev.ID, cur.ID) {
					continue
				}
				cur = p.displace(cur, prev.End)
				moved = true
			}
		}
		ordered[i] = cur
		processed = append(processed, cur)
	}
	return ordered
}

// initiallyOverlapping checks the pre-edit positions. Overlap survives
// reflection, so the check is valid for mirrored blocks too.
func (p propagator) initiallyOverlapping(a, b string) bool {
	ba, okA := p.initial[a]
	bb, okB := p.initial[b]
	return okA && okB && ba.Overlaps(bb)
}

func (p propagator) displace(b Block, edge int) Block {
	switch p.policy {
	case PolicyPush:
		return Block{ID: b.ID, Start: edge, End: edge + b.Duration()}
	case PolicyShrink:
		return Block{ID: b.ID, Start: edge, End: max(b.End, edge+p.minDuration)}
	default:
		return b
	}
}
