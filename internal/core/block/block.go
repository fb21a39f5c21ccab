// Package block implements the time-sampled block engine: Constant/Samples/
// Action blocks, and the per-track Sequence operations (get, add, shift,
// remove) that enforce the non-overlapping, time-ordered invariant from
// spec.md §3/§4.C.
package block

import (
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// Kind discriminates the three block payload variants.
type Kind int

const (
	KindConstant Kind = iota
	KindSamples
	KindAction
)

// Block is one (range, payload) unit of track data.
type Block struct {
	Range timeline.Range
	Kind  Kind

	// Constant holds the single held value for KindConstant.
	Constant value.Value

	// SampleRate and Samples hold the dense array for KindSamples. len(Samples)
	// must equal Range.FrameCount(SampleRate)+1 (endpoints included).
	SampleRate int
	Samples    []value.Value

	// Action holds the opaque event payload for KindAction.
	Action value.Value
}

// NewConstant builds a Constant block over r.
func NewConstant(r timeline.Range, v value.Value) Block {
	return Block{Range: r, Kind: KindConstant, Constant: v}
}

// NewAction builds an Action block, which may have zero duration.
func NewAction(r timeline.Range, v value.Value) Block {
	return Block{Range: r, Kind: KindAction, Action: v}
}

// NewSamples builds a Samples block; len(samples) must be
// r.FrameCount(rate)+1.
func NewSamples(r timeline.Range, rate int, samples []value.Value) Block {
	return Block{Range: r, Kind: KindSamples, SampleRate: rate, Samples: samples}
}

// NewSamplesOrConstant builds a Constant block if every sample is
// almost_equal to the first under ty's default epsilon, else a Samples
// block, per spec.md §4.I step 4 / §8 scenario 5's collapse rule.
func NewSamplesOrConstant(r timeline.Range, rate int, samples []value.Value, ty value.Type) Block {
	if len(samples) == 0 {
		return NewConstant(r, ty.Default())
	}
	constant := true
	for _, v := range samples[1:] {
		if !ty.AlmostEqual(v, samples[0], ty.DefaultEpsilon()) {
			constant = false
			break
		}
	}
	if constant {
		return NewConstant(r, samples[0])
	}
	return NewSamples(r, rate, samples)
}

// sampleIndexAt returns the fractional sample index for t within b, along
// with the floor index and the interpolation fraction in [0,1].
func (b Block) sampleIndexAt(t timeline.T) (idx int, frac float64) {
	period := timeline.FramePeriod(b.SampleRate)
	if period <= 0 {
		return 0, 0
	}
	offset := t - b.Range.Start
	if offset < 0 {
		return 0, 0
	}
	q := int64(offset) / int64(period)
	r := int64(offset) % int64(period)
	last := len(b.Samples) - 1
	if int(q) >= last {
		return last, 0
	}
	return int(q), float64(r) / float64(period)
}

// ValueAt evaluates b's payload at t, assuming t lies within b.Range (or at
// its closed end, for the endpoint-clamp case callers rely on). ty is the
// registered Type for the track's value kind, used for Samples
// interpolation.
func (b Block) ValueAt(t timeline.T, ty value.Type) value.Value {
	switch b.Kind {
	case KindConstant:
		return b.Constant
	case KindAction:
		return b.Action
	case KindSamples:
		if len(b.Samples) == 0 {
			return ty.Default()
		}
		idx, frac := b.sampleIndexAt(t)
		if idx+1 >= len(b.Samples) || frac == 0 {
			return b.Samples[idx]
		}
		return ty.Lerp(b.Samples[idx], b.Samples[idx+1], frac)
	default:
		return ty.Default()
	}
}

// LastValue returns the rightmost meaningful value of b, used when a track
// is asked for its "last known value" beyond the final block.
func (b Block) LastValue(ty value.Type) value.Value {
	switch b.Kind {
	case KindConstant:
		return b.Constant
	case KindAction:
		return b.Action
	case KindSamples:
		if len(b.Samples) == 0 {
			return ty.Default()
		}
		return b.Samples[len(b.Samples)-1]
	default:
		return ty.Default()
	}
}

// FirstValue returns the leftmost meaningful value of b.
func (b Block) FirstValue(ty value.Type) value.Value {
	switch b.Kind {
	case KindConstant:
		return b.Constant
	case KindAction:
		return b.Action
	case KindSamples:
		if len(b.Samples) == 0 {
			return ty.Default()
		}
		return b.Samples[0]
	default:
		return ty.Default()
	}
}

// Shift translates b's range by delta, leaving payload untouched.
func (b Block) Shift(delta timeline.T) Block {
	b.Range = b.Range.Shift(delta)
	return b
}

// frameIndexFloor returns the largest sample index i such that
// start+i*period <= t, clamped to [0, len-1].
func frameIndexFloor(start timeline.T, period timeline.T, t timeline.T, lastIdx int) int {
	if period <= 0 {
		return 0
	}
	offset := t - start
	if offset <= 0 {
		return 0
	}
	idx := int(int64(offset) / int64(period))
	if idx > lastIdx {
		idx = lastIdx
	}
	return idx
}

// frameIndexCeil returns the smallest sample index i such that
// start+i*period >= t, clamped to [0, lastIdx].
func frameIndexCeil(start timeline.T, period timeline.T, t timeline.T, lastIdx int) int {
	if period <= 0 {
		return 0
	}
	offset := t - start
	if offset <= 0 {
		return 0
	}
	q := int64(offset) / int64(period)
	if int64(offset)%int64(period) != 0 {
		q++
	}
	idx := int(q)
	if idx > lastIdx {
		idx = lastIdx
	}
	return idx
}

// sliceSamplesLeft returns a new Samples block covering the portion of b up to
// (not including) cut, re-slicing the sample array at the frame boundary
// closest to but not crossing cut, rounding toward keeping existing
// data. Returns ok=false if the resulting block would be empty.
func (b Block) sliceSamplesLeft(cut timeline.T) (Block, bool) {
	if cut <= b.Range.Start {
		return Block{}, false
	}
	if cut >= b.Range.End {
		return b, true
	}
	period := timeline.FramePeriod(b.SampleRate)
	lastIdx := len(b.Samples) - 1
	idx := frameIndexFloor(b.Range.Start, period, cut, lastIdx)
	if idx <= 0 {
		return Block{}, false
	}
	newEnd := b.Range.Start.Add(timeline.T(idx) * period)
	out := Block{
		Range:      timeline.NewRange(b.Range.Start, newEnd),
		Kind:       KindSamples,
		SampleRate: b.SampleRate,
		Samples:    append([]value.Value(nil), b.Samples[:idx+1]...),
	}
	return out, true
}

// sliceSamplesRight is the mirror of sliceSamplesLeft: keep the portion of b
// from cut onward.
func (b Block) sliceSamplesRight(cut timeline.T) (Block, bool) {
	if cut >= b.Range.End {
		return Block{}, false
	}
	if cut <= b.Range.Start {
		return b, true
	}
	period := timeline.FramePeriod(b.SampleRate)
	lastIdx := len(b.Samples) - 1
	idx := frameIndexCeil(b.Range.Start, period, cut, lastIdx)
	if idx >= lastIdx {
		return Block{}, false
	}
	newStart := b.Range.Start.Add(timeline.T(idx) * period)
	out := Block{
		Range:      timeline.NewRange(newStart, b.Range.End),
		Kind:       KindSamples,
		SampleRate: b.SampleRate,
		Samples:    append([]value.Value(nil), b.Samples[idx:]...),
	}
	return out, true
}

// Clamp returns b restricted to its intersection with r, re-slicing a
// Samples payload so its array stays consistent with the clamped range
// (rather than leaving Samples pointing at data for the original,
// unclamped range). Returns ok=false if the intersection is empty.
func (b Block) Clamp(r timeline.Range) (Block, bool) {
	inter := b.Range.Intersect(r)
	if inter.Duration() == 0 {
		if b.Kind == KindAction && r.Contains(b.Range.Start) {
			return b, true
		}
		return Block{}, false
	}
	if b.Kind != KindSamples {
		b.Range = inter
		return b, true
	}
	right, ok := b.truncateRight(inter.Start)
	if !ok {
		return Block{}, false
	}
	return right.truncateLeft(inter.End)
}

// truncateLeft returns the portion of b before cut, or false if nothing
// survives. For Constant/Action blocks this is a pure range truncation.
func (b Block) truncateLeft(cut timeline.T) (Block, bool) {
	if b.Kind == KindSamples {
		return b.sliceSamplesLeft(cut)
	}
	if cut <= b.Range.Start {
		return Block{}, false
	}
	if cut >= b.Range.End {
		return b, true
	}
	b.Range = timeline.NewRange(b.Range.Start, cut)
	return b, true
}

// truncateRight returns the portion of b from cut onward, or false if
// nothing survives.
func (b Block) truncateRight(cut timeline.T) (Block, bool) {
	if b.Kind == KindSamples {
		return b.sliceSamplesRight(cut)
	}
	if cut >= b.Range.End {
		return Block{}, false
	}
	if cut <= b.Range.Start {
		return b, true
	}
	b.Range = timeline.NewRange(cut, b.Range.End)
	return b, true
}
