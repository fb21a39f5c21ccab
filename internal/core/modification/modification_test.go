package modification

import (
	"context"
	"testing"

	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/track"
	"github.com/gowvp/moviemaker/internal/core/value"
)

func buildMovingObject(t *testing.T, positions []value.Vec3, rate int) (*track.Tree, *track.Track) {
	tree := track.NewTree()
	obj := track.NewRefTrack("actor")
	if err := tree.AddRoot(obj); err != nil {
		t.Fatal(err)
	}
	pos := track.NewPropTrack("LocalPosition", value.KindVec3)
	samples := make([]value.Value, len(positions))
	for i, p := range positions {
		samples[i] = value.Value{Kind: value.KindVec3, Vec3: p}
	}
	r := timeline.NewRange(0, timeline.T(int64(len(positions)-1))*timeline.FramePeriod(rate))
	pos.Blocks = block.NewSequence(block.NewSamples(r, rate, samples))
	if err := tree.AddChild(obj.ID, pos); err != nil {
		t.Fatal(err)
	}
	return tree, obj
}

func TestRotateWithMotionSkipsStationaryObject(t *testing.T) {
	rate := 10
	positions := []value.Vec3{{X: 0}, {X: 0}, {X: 0}}
	_, obj := buildMovingObject(t, positions, rate)

	reg := value.NewRegistry()
	sel := TimeSelection{Range: timeline.NewRange(0, timeline.T(2)*timeline.FramePeriod(rate)), SampleRate: rate}

	out, err := (RotateWithMotion{}).Start(context.Background(), TrackListView{Objects: []*track.Track{obj}}, sel, reg)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no output for a stationary object, got %d", len(out))
	}
}

func TestRotateWithMotionBackfillsBeforeFirstMotion(t *testing.T) {
	rate := 10
	positions := []value.Vec3{{X: 0}, {X: 0}, {X: 1}, {X: 2}}
	_, obj := buildMovingObject(t, positions, rate)

	reg := value.NewRegistry()
	sel := TimeSelection{Range: timeline.NewRange(0, timeline.T(3)*timeline.FramePeriod(rate)), SampleRate: rate}

	out, err := (RotateWithMotion{}).Start(context.Background(), TrackListView{Objects: []*track.Track{obj}}, sel, reg)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one compiled track, got %d", len(out))
	}
	if out[0].Property != "LocalRotation" {
		t.Fatalf("expected LocalRotation, got %q", out[0].Property)
	}
	// Every move is along +X, so the back-filled stationary frames take the
	// first moving frame's rotation and the whole range collapses to Constant.
	if len(out[0].Blocks) != 1 || out[0].Blocks[0].Kind != block.KindConstant {
		t.Fatalf("expected back-fill to yield one Constant block, got %+v", out[0].Blocks)
	}
}

func TestMotionToAnimParametersProducesAllParamNames(t *testing.T) {
	rate := 10
	positions := []value.Vec3{{X: 0}, {X: 1}, {X: 2}, {X: 2}}
	tree, obj := buildMovingObject(t, positions, rate)

	accessor := track.NewRefTrack("SkinnedModel")
	if err := tree.AddChild(obj.ID, accessor); err != nil {
		t.Fatal(err)
	}

	reg := value.NewRegistry()
	sel := TimeSelection{Range: timeline.NewRange(0, timeline.T(3)*timeline.FramePeriod(rate)), SampleRate: rate}

	out, err := (MotionToAnimParameters{}).Start(context.Background(), TrackListView{Objects: []*track.Track{obj}}, sel, reg)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(motionParamNames) {
		t.Fatalf("expected %d parameter tracks, got %d", len(motionParamNames), len(out))
	}
	seen := make(map[string]bool)
	for _, c := range out {
		if c.Object != accessor {
			t.Fatalf("expected output targeted at the SkinnedModel accessor, got %v", c.Object)
		}
		seen[c.Property] = true
	}
	for _, name := range motionParamNames {
		if !seen[name] {
			t.Fatalf("missing parameter track %q", name)
		}
	}
}

func TestMotionToAnimParametersMoveYNegated(t *testing.T) {
	rate := 10
	positions := []value.Vec3{{Y: 0}, {Y: 1}, {Y: 2}}
	tree, obj := buildMovingObject(t, positions, rate)
	accessor := track.NewRefTrack("SkinnedModel")
	if err := tree.AddChild(obj.ID, accessor); err != nil {
		t.Fatal(err)
	}

	reg := value.NewRegistry()
	sel := TimeSelection{Range: timeline.NewRange(0, timeline.T(2)*timeline.FramePeriod(rate)), SampleRate: rate}
	out, err := (MotionToAnimParameters{}).Start(context.Background(), TrackListView{Objects: []*track.Track{obj}}, sel, reg)
	if err != nil {
		t.Fatal(err)
	}
	floatTy, _ := reg.Lookup(value.KindFloat)
	for _, c := range out {
		if c.Property != "move_y" {
			continue
		}
		// Frame 0 has no previous frame and so zero velocity; read the last
		// frame, where the object is moving in +Y.
		v := c.Blocks[0].ValueAt(c.Blocks[0].Range.End, floatTy)
		if v.Float >= 0 {
			t.Fatalf("expected move_y negated (moving in +Y should read negative), got %v", v.Float)
		}
	}
}

type fakeSkeleton struct {
	parents map[string]string
	names   []string
}

func (f fakeSkeleton) BoneNames() []string          { return f.names }
func (f fakeSkeleton) BoneParent(bone string) string { return f.parents[bone] }
func (f fakeSkeleton) Evaluate(params map[string]float64, dt float64) map[string]value.Transform {
	out := make(map[string]value.Transform, len(f.names))
	for _, n := range f.names {
		out[n] = value.Transform{Position: value.Vec3{X: params["move_x"]}, Rotation: value.IdentityQuat, Scale: value.Vec3{X: 1, Y: 1, Z: 1}}
	}
	return out
}

func TestToposortBonesOrdersParentsBeforeChildren(t *testing.T) {
	model := fakeSkeleton{
		names:   []string{"hand", "root", "arm"},
		parents: map[string]string{"arm": "root", "hand": "arm"},
	}
	order, err := toposortBones(model)
	if err != nil {
		t.Fatal(err)
	}
	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	if pos["root"] > pos["arm"] || pos["arm"] > pos["hand"] {
		t.Fatalf("expected root before arm before hand, got %v", order)
	}
}

func TestToposortBonesDetectsCycle(t *testing.T) {
	model := fakeSkeleton{
		names:   []string{"a", "b"},
		parents: map[string]string{"a": "b", "b": "a"},
	}
	if _, err := toposortBones(model); err == nil {
		t.Fatal("expected cycle error")
	}
}

func TestAnimParamsToBonesEmitsOneTrackPerBoneInToposortedOrder(t *testing.T) {
	rate := 10
	positions := []value.Vec3{{X: 0}, {X: 1}}
	tree, obj := buildMovingObject(t, positions, rate)
	accessor := track.NewRefTrack("SkinnedModel")
	if err := tree.AddChild(obj.ID, accessor); err != nil {
		t.Fatal(err)
	}
	bones := track.NewRefTrack("Bones")
	if err := tree.AddChild(accessor.ID, bones); err != nil {
		t.Fatal(err)
	}

	model := fakeSkeleton{names: []string{"root", "arm"}, parents: map[string]string{"arm": "root"}}
	mod := AnimParamsToBones{Model: func(o *track.Track) SkeletonModel { return model }}

	reg := value.NewRegistry()
	sel := TimeSelection{Range: timeline.NewRange(0, timeline.T(1)*timeline.FramePeriod(rate)), SampleRate: rate}
	out, err := mod.Start(context.Background(), TrackListView{Objects: []*track.Track{obj}}, sel, reg)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 bone tracks, got %d", len(out))
	}
	for _, c := range out {
		if c.Object != bones {
			t.Fatalf("expected bone outputs targeted at the Bones accessor")
		}
	}
}
