package project

import (
	"testing"

	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/keyframe"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/track"
	"github.com/gowvp/moviemaker/internal/core/value"
)

func TestEncodeDecodeRoundTripBlocks(t *testing.T) {
	p := New(30, keyframe.Linear)
	root := track.NewRefTrack("actor")
	if err := p.Tree.AddRoot(root); err != nil {
		t.Fatal(err)
	}
	prop := track.NewPropTrack("LocalPosition", value.KindVec3)
	prop.Blocks = block.NewSequence(block.NewConstant(
		timeline.NewRange(0, timeline.FromSeconds(5)),
		value.Value{Kind: value.KindVec3, Vec3: value.Vec3{X: 1, Y: 2, Z: 3}},
	))
	if err := p.Tree.AddChild(root.ID, prop); err != nil {
		t.Fatal(err)
	}

	data, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}

	registry := value.NewRegistry()
	decoded, err := Decode(data, registry)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.SampleRate != 30 {
		t.Fatalf("expected sampleRate 30, got %d", decoded.SampleRate)
	}
	gotProp, err := decoded.Tree.FindChild(decoded.Tree.Roots()[0].ID, "LocalPosition")
	if err != nil {
		t.Fatal(err)
	}
	ty, _ := registry.Lookup(value.KindVec3)
	v := gotProp.Blocks.GetValueAt(timeline.FromSeconds(2), ty)
	if v.Vec3 != (value.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("expected round-tripped constant, got %+v", v.Vec3)
	}
}

func TestEncodeDecodeRoundTripKeyframes(t *testing.T) {
	p := New(30, keyframe.Linear)
	root := track.NewRefTrack("actor")
	if err := p.Tree.AddRoot(root); err != nil {
		t.Fatal(err)
	}
	prop := track.NewPropTrack("Opacity", value.KindFloat)
	if err := p.Tree.AddChild(root.ID, prop); err != nil {
		t.Fatal(err)
	}
	curve := keyframe.Curve{Points: []keyframe.Point{
		{Time: 0, Value: value.Value{Kind: value.KindFloat, Float: 0}, Interpolation: keyframe.Linear},
		{Time: timeline.FromSeconds(1), Value: value.Value{Kind: value.KindFloat, Float: 1}, Interpolation: keyframe.Linear},
	}}
	p.Curves[prop.ID] = curve
	ty, _ := value.NewRegistry().Lookup(value.KindFloat)
	prop.Blocks = curve.Compile(p.SampleRate, ty)

	data, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}

	registry := value.NewRegistry()
	decoded, err := Decode(data, registry)
	if err != nil {
		t.Fatal(err)
	}
	gotProp, err := decoded.Tree.FindChild(decoded.Tree.Roots()[0].ID, "Opacity")
	if err != nil {
		t.Fatal(err)
	}
	gotCurve, ok := decoded.Curves[gotProp.ID]
	if !ok {
		t.Fatal("expected decoded curve to be preserved")
	}
	if len(gotCurve.Points) != 2 || gotCurve.Points[1].Value.Float != 1 {
		t.Fatalf("expected round-tripped curve, got %+v", gotCurve.Points)
	}
}

func TestDecodeRejectsUnknownInterpolation(t *testing.T) {
	data := []byte(`{"sampleRate":30,"defaultInterpolation":"Bogus","tracks":[]}`)
	if _, err := Decode(data, value.NewRegistry()); err == nil {
		t.Fatal("expected error for unknown defaultInterpolation")
	}
}
