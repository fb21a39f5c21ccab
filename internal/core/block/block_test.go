package block

import (
	"testing"

	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/value"
)

func floatVal(f float64) value.Value { return value.Value{Kind: value.KindFloat, Float: f} }

func floatSamples(n int) []value.Value {
	out := make([]value.Value, n)
	for i := range out {
		out[i] = floatVal(float64(i))
	}
	return out
}

func TestScenario1BlockSampling(t *testing.T) {
	reg := value.NewRegistry()
	ty, _ := reg.Lookup(value.KindFloat)

	r := timeline.NewRange(0, timeline.FromSeconds(2))
	// len = frameCount(range, rate)+1 = 61; values 0..59 then the endpoint
	// sample repeats 59, matching the scenario's stated get_value_at(2.0s).
	samples := floatSamples(60)
	samples = append(samples, floatVal(59))
	b := NewSamples(r, 30, samples)

	seq := NewSequence(b)

	if got := seq.GetValueAt(timeline.FromSeconds(0.5), ty).Float; got != 15 {
		t.Fatalf("t=0.5s got %v want 15", got)
	}
	if got := seq.GetValueAt(timeline.FromSeconds(1.0), ty).Float; got != 30 {
		t.Fatalf("t=1.0s got %v want 30", got)
	}
	if got := seq.GetValueAt(timeline.FromSeconds(2.0), ty).Float; got != 59 {
		t.Fatalf("t=2.0s got %v want 59 (end clamp)", got)
	}
}

func TestScenario2OverwriteTruncation(t *testing.T) {
	a := floatVal(1)
	bVal := floatVal(2)
	existing := NewConstant(timeline.NewRange(0, timeline.FromSeconds(10)), a)
	seq := NewSequence(existing)

	incoming := NewSamples(timeline.NewRange(timeline.FromSeconds(3), timeline.FromSeconds(7)), 10,
		make([]value.Value, timeline.NewRange(timeline.FromSeconds(3), timeline.FromSeconds(7)).FrameCount(10)+1))
	for i := range incoming.Samples {
		incoming.Samples[i] = bVal
	}
	seq.AddRange([]Block{incoming})

	blocks := seq.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].Range != timeline.NewRange(0, timeline.FromSeconds(3)) || blocks[0].Kind != KindConstant {
		t.Fatalf("block0 wrong: %+v", blocks[0])
	}
	if blocks[1].Range != timeline.NewRange(timeline.FromSeconds(3), timeline.FromSeconds(7)) || blocks[1].Kind != KindSamples {
		t.Fatalf("block1 wrong: %+v", blocks[1])
	}
	if blocks[2].Range != timeline.NewRange(timeline.FromSeconds(7), timeline.FromSeconds(10)) || blocks[2].Kind != KindConstant {
		t.Fatalf("block2 wrong: %+v", blocks[2])
	}
}

func TestIncomingStrictlyInsideExistingSplits(t *testing.T) {
	existing := NewConstant(timeline.NewRange(0, 100), floatVal(1))
	seq := NewSequence(existing)
	seq.AddRange([]Block{NewConstant(timeline.NewRange(40, 60), floatVal(2))})
	blocks := seq.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("expected split into 3, got %d", len(blocks))
	}
}

func TestIncomingContainsExistingRemoves(t *testing.T) {
	existing := NewConstant(timeline.NewRange(40, 60), floatVal(1))
	seq := NewSequence(existing)
	seq.AddRange([]Block{NewConstant(timeline.NewRange(0, 100), floatVal(2))})
	blocks := seq.Blocks()
	if len(blocks) != 1 || blocks[0].Range != timeline.NewRange(0, 100) {
		t.Fatalf("expected single replacing block, got %+v", blocks)
	}
}

func TestRemoveThenAddRangeIsIdempotent(t *testing.T) {
	existing := NewConstant(timeline.NewRange(0, 100), floatVal(1))
	seq := NewSequence(existing)
	before := append([]Block(nil), seq.Blocks()...)

	r := timeline.NewRange(30, 70)
	removedPortion := seq.GetBlocks(r)
	seq.Remove(r)
	seq.AddRange(removedPortion)

	after := seq.Blocks()
	if len(after) != len(before) {
		t.Fatalf("idempotence broke block count: got %d want %d", len(after), len(before))
	}
	for i := range after {
		if after[i].Range != before[i].Range || after[i].Kind != before[i].Kind {
			t.Fatalf("idempotence broke block %d: got %+v want %+v", i, after[i], before[i])
		}
	}
}

func TestGetBlocksOrderedAndClamped(t *testing.T) {
	seq := NewSequence(
		NewConstant(timeline.NewRange(0, 10), floatVal(1)),
		NewConstant(timeline.NewRange(10, 20), floatVal(2)),
		NewConstant(timeline.NewRange(20, 30), floatVal(3)),
	)
	got := seq.GetBlocks(timeline.NewRange(5, 25))
	if len(got) != 3 {
		t.Fatalf("expected 3 blocks in range, got %d", len(got))
	}
	prevStart := timeline.T(-1)
	for _, b := range got {
		if b.Range.Start < prevStart {
			t.Fatal("blocks not ordered by start")
		}
		prevStart = b.Range.Start
		if b.Range.Start < 5 || b.Range.End > 25 {
			t.Fatalf("block not clamped: %+v", b.Range)
		}
	}
}

// TestGetBlocksReslicesSamplesOnPartialOverlap covers the case where a
// selection range cuts through (rather than fully containing) a Samples
// block: GetBlocks must clamp both the returned Range and the Samples
// array together, so len(Samples) still matches
// Range.FrameCount(SampleRate)+1 rather than overhanging the declared
// range with leftover data from the unclamped block.
func TestGetBlocksReslicesSamplesOnPartialOverlap(t *testing.T) {
	r := timeline.NewRange(0, timeline.FromSeconds(2))
	samples := floatSamples(int(r.FrameCount(30)) + 1)
	seq := NewSequence(NewSamples(r, 30, samples))

	sel := timeline.NewRange(timeline.FromSeconds(0.5), timeline.FromSeconds(1.5))
	got := seq.GetBlocks(sel)
	if len(got) != 1 {
		t.Fatalf("expected one clamped block, got %d", len(got))
	}
	b := got[0]
	if b.Range != sel {
		t.Fatalf("expected clamped range %+v, got %+v", sel, b.Range)
	}
	wantLen := int(sel.FrameCount(30)) + 1
	if len(b.Samples) != wantLen {
		t.Fatalf("expected %d samples matching the clamped range, got %d", wantLen, len(b.Samples))
	}
	// The reslice keeps existing data: the first clamped sample is the
	// original block's sample at t=0.5s (index 15), not the original
	// first sample.
	if b.Samples[0].Float != 15 {
		t.Fatalf("expected reslice to start at sample 15, got %v", b.Samples[0].Float)
	}
}

func TestActionBlockZeroDuration(t *testing.T) {
	a := NewAction(timeline.NewRange(50, 50), value.Value{Kind: value.KindAction, Action: []byte("fire")})
	seq := NewSequence(a)
	got := seq.GetBlocks(timeline.NewRange(0, 100))
	if len(got) != 1 {
		t.Fatalf("expected action block to be found, got %d", len(got))
	}
}
