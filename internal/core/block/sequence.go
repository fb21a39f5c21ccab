package block

import (
	"reflect"
	"sort"

	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// Sequence holds one track's blocks, always kept non-overlapping and sorted
// by start time (spec.md §3 invariants).
type Sequence struct {
	blocks []Block
}

// NewSequence builds a Sequence from blocks, which must already be ordered
// and non-overlapping (the same precondition AddRange documents for
// incoming data).
func NewSequence(blocks ...Block) *Sequence {
	s := &Sequence{blocks: append([]Block(nil), blocks...)}
	sort.Slice(s.blocks, func(i, j int) bool { return s.blocks[i].Range.Start < s.blocks[j].Range.Start })
	return s
}

// Blocks returns the full ordered block list. Callers must not mutate it.
func (s *Sequence) Blocks() []Block {
	return s.blocks
}

// GetBlocks returns blocks whose range intersects r, in time order, with
// each block's range clamped to r.
func (s *Sequence) GetBlocks(r timeline.Range) []Block {
	var out []Block
	for _, b := range s.blocks {
		if b.Range.Empty() {
			// Zero-duration (Action) blocks never satisfy Overlaps; treat
			// them as a point event included by the half-open Contains test.
			if r.Contains(b.Range.Start) {
				out = append(out, b)
			}
			continue
		}
		if !b.Range.Overlaps(r) {
			continue
		}
		clamped, ok := b.Clamp(r)
		if !ok {
			continue
		}
		out = append(out, clamped)
	}
	return out
}

// GetValueAt returns the value of the track at t: inside a block it
// interpolates (Samples) or returns the held payload (Constant/Action);
// outside any block it returns the last known value (the rightmost block
// ending at or before t), else ty.Default().
func (s *Sequence) GetValueAt(t timeline.T, ty value.Type) value.Value {
	for _, b := range s.blocks {
		if b.Range.Contains(t) {
			return b.ValueAt(t, ty)
		}
		// Endpoint clamp: t at or past the final instant of a zero-width
		// gap-free block is handled by the "last known value" fallback
		// below, except for the exact end of the very last block, which
		// spec.md's scenario 1 requires to clamp rather than fall through
		// to default.
	}
	// Closed-end clamp: if t equals the end of some block and no later
	// block starts there, treat it as that block's last value.
	var last *Block
	for i := range s.blocks {
		b := &s.blocks[i]
		if b.Range.End <= t {
			if last == nil || b.Range.End > last.Range.End {
				last = b
			}
		}
	}
	if last != nil {
		return last.LastValue(ty)
	}
	return ty.Default()
}

// AddRange inserts incoming, which must itself be ordered and non-
// overlapping, applying the overlap policy from spec.md §4.C against the
// existing blocks. Afterwards, touching Constant blocks holding identical
// values are merged into one; Samples and Action blocks are never merged.
func (s *Sequence) AddRange(incoming []Block) {
	for _, nb := range incoming {
		s.blocks = removeRange(s.blocks, nb.Range)
		s.blocks = append(s.blocks, nb)
	}
	sort.Slice(s.blocks, func(i, j int) bool { return s.blocks[i].Range.Start < s.blocks[j].Range.Start })

	merged := make([]Block, 0, len(s.blocks))
	for _, b := range s.blocks {
		if n := len(merged); n > 0 {
			prev := &merged[n-1]
			if prev.Kind == KindConstant && b.Kind == KindConstant &&
				prev.Range.End == b.Range.Start && reflect.DeepEqual(prev.Constant, b.Constant) {
				prev.Range.End = b.Range.End
				continue
			}
		}
		merged = append(merged, b)
	}
	s.blocks = merged
}

// Shift translates every block in s by delta.
func (s *Sequence) Shift(delta timeline.T) {
	for i := range s.blocks {
		s.blocks[i] = s.blocks[i].Shift(delta)
	}
}

// Remove erases blocks inside r and truncates/splits partially overlapping
// ones by the same rules AddRange uses for conflicting incoming data.
func (s *Sequence) Remove(r timeline.Range) {
	s.blocks = removeRange(s.blocks, r)
}

// removeRange carves r out of blocks, applying the truncate/split/drop
// policy: a block strictly inside r is dropped; r strictly inside a block
// splits it; partial overlap on one side truncates that side.
func removeRange(blocks []Block, r timeline.Range) []Block {
	out := make([]Block, 0, len(blocks)+1)
	for _, b := range blocks {
		if r.Duration() == 0 {
			// A zero-duration cut only affects a zero-duration Action
			// block sitting exactly at that instant.
			if b.Kind == KindAction && b.Range.Start == r.Start {
				continue
			}
			out = append(out, b)
			continue
		}
		if !b.Range.Overlaps(r) {
			out = append(out, b)
			continue
		}
		switch {
		case r.Start <= b.Range.Start && r.End >= b.Range.End:
			// r fully contains b: drop it.
		case b.Range.Start < r.Start && b.Range.End > r.End:
			// r strictly inside b: split into left and right remainders.
			if left, ok := b.truncateLeft(r.Start); ok {
				out = append(out, left)
			}
			if right, ok := b.truncateRight(r.End); ok {
				out = append(out, right)
			}
		case r.Start <= b.Range.Start:
			// r overlaps b's left/prefix: keep b's right remainder.
			if right, ok := b.truncateRight(r.End); ok {
				out = append(out, right)
			}
		default:
			// r overlaps b's right/suffix: keep b's left remainder.
			if left, ok := b.truncateLeft(r.Start); ok {
				out = append(out, left)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range.Start < out[j].Range.Start })
	return out
}
