package keyframe

import (
	"testing"

	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/value"
)

func floatPoint(sec float64, f float64, interp Interpolation) Point {
	return Point{Time: timeline.FromSeconds(sec), Value: value.Value{Kind: value.KindFloat, Float: f}, Interpolation: interp}
}

func TestCompileStepProducesConstant(t *testing.T) {
	reg := value.NewRegistry()
	ty, _ := reg.Lookup(value.KindFloat)
	c := Curve{Points: []Point{
		floatPoint(0, 1, Step),
		floatPoint(1, 2, Step),
	}}
	seq := c.Compile(30, ty)
	blocks := seq.Blocks()
	if len(blocks) != 1 || blocks[0].Kind != block.KindConstant {
		t.Fatalf("expected a single Constant block, got %+v", blocks)
	}
	if blocks[0].Constant.Float != 1 {
		t.Fatalf("step segment should hold the left keyframe's value, got %v", blocks[0].Constant.Float)
	}
}

func TestCompileLinearProducesSamples(t *testing.T) {
	reg := value.NewRegistry()
	ty, _ := reg.Lookup(value.KindFloat)
	c := Curve{Points: []Point{
		floatPoint(0, 0, Linear),
		floatPoint(1, 10, Linear),
	}}
	seq := c.Compile(10, ty)
	blocks := seq.Blocks()
	if len(blocks) != 1 || blocks[0].Kind != block.KindSamples {
		t.Fatalf("expected a single Samples block, got %+v", blocks)
	}
	mid := seq.GetValueAt(timeline.FromSeconds(0.5), ty)
	if mid.Float != 5 {
		t.Fatalf("linear midpoint should be 5, got %v", mid.Float)
	}
}

func TestCompileEqualEndpointsCollapseToConstant(t *testing.T) {
	reg := value.NewRegistry()
	ty, _ := reg.Lookup(value.KindFloat)
	c := Curve{Points: []Point{
		floatPoint(0, 5, Linear),
		floatPoint(1, 5, Linear),
	}}
	seq := c.Compile(30, ty)
	blocks := seq.Blocks()
	if len(blocks) != 1 || blocks[0].Kind != block.KindConstant {
		t.Fatalf("equal endpoints should collapse to Constant, got %+v", blocks)
	}
}

func TestCompileCubicInteriorSegmentPassesThroughKeyframes(t *testing.T) {
	reg := value.NewRegistry()
	ty, _ := reg.Lookup(value.KindFloat)
	c := Curve{Points: []Point{
		floatPoint(0, 0, Cubic),
		floatPoint(1, 10, Cubic),
		floatPoint(2, 5, Cubic),
		floatPoint(3, 20, Cubic),
	}}
	seq := c.Compile(30, ty)

	at1 := seq.GetValueAt(timeline.FromSeconds(1), ty)
	if d := at1.Float - 10; d > 1e-6 || d < -1e-6 {
		t.Fatalf("cubic curve should pass through keyframe at t=1: got %v", at1.Float)
	}
	at2 := seq.GetValueAt(timeline.FromSeconds(2), ty)
	if d := at2.Float - 5; d > 1e-6 || d < -1e-6 {
		t.Fatalf("cubic curve should pass through keyframe at t=2: got %v", at2.Float)
	}
}

func TestCompileCubicBoundaryMirrorsNeighbor(t *testing.T) {
	reg := value.NewRegistry()
	ty, _ := reg.Lookup(value.KindFloat)
	// Only two keyframes: both boundary segments must mirror rather than
	// index out of range.
	c := Curve{Points: []Point{
		floatPoint(0, 0, Cubic),
		floatPoint(1, 10, Cubic),
	}}
	seq := c.Compile(30, ty)
	start := seq.GetValueAt(timeline.FromSeconds(0), ty)
	if start.Float != 0 {
		t.Fatalf("cubic curve should still pass through its own first keyframe, got %v", start.Float)
	}
	end := seq.GetValueAt(timeline.FromSeconds(1), ty)
	if end.Float != 10 {
		t.Fatalf("cubic curve should still pass through its own last keyframe, got %v", end.Float)
	}
}

func TestCompileSinglePointYieldsZeroDurationConstant(t *testing.T) {
	reg := value.NewRegistry()
	ty, _ := reg.Lookup(value.KindFloat)
	c := Curve{Points: []Point{floatPoint(5, 42, Linear)}}
	seq := c.Compile(30, ty)
	blocks := seq.Blocks()
	if len(blocks) != 1 || !blocks[0].Range.Empty() {
		t.Fatalf("single keyframe should yield one zero-duration block, got %+v", blocks)
	}
}

func TestCompileEmptyCurveYieldsNoBlocks(t *testing.T) {
	reg := value.NewRegistry()
	ty, _ := reg.Lookup(value.KindFloat)
	c := Curve{}
	seq := c.Compile(30, ty)
	if len(seq.Blocks()) != 0 {
		t.Fatalf("empty curve should compile to no blocks, got %+v", seq.Blocks())
	}
}
