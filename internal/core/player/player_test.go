package player

import (
	"testing"

	"github.com/gowvp/moviemaker/internal/core/binder"
	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/track"
	"github.com/gowvp/moviemaker/internal/core/value"
)

type recordingScene struct {
	writes []write
}

type write struct {
	ref          any
	propertyPath []string
	value        value.Value
}

func (s *recordingScene) ResolveRef(path []string) (any, error) { return "ref:" + path[len(path)-1], nil }
func (s *recordingScene) ResolveProperty(ref any, propertyPath []string) (value.Value, error) {
	return value.Value{}, nil
}
func (s *recordingScene) WriteProperty(ref any, propertyPath []string, v value.Value) error {
	s.writes = append(s.writes, write{ref: ref, propertyPath: propertyPath, value: v})
	return nil
}

func buildTreeWithFloatProp(t *testing.T) (*track.Tree, *track.Track) {
	tree := track.NewTree()
	root := track.NewRefTrack("object")
	if err := tree.AddRoot(root); err != nil {
		t.Fatal(err)
	}
	prop := track.NewPropTrack("opacity", value.KindFloat)
	seq := block.NewSequence(block.NewConstant(timeline.NewRange(0, timeline.FromSeconds(10)), value.Value{Kind: value.KindFloat, Float: 0.5}))
	prop.Blocks = seq
	if err := tree.AddChild(root.ID, prop); err != nil {
		t.Fatal(err)
	}
	return tree, prop
}

func TestSetTimeSamplesAndWrites(t *testing.T) {
	tree, _ := buildTreeWithFloatProp(t)
	scene := &recordingScene{}
	b := binder.New(scene, 8)

	p := New(value.NewRegistry())
	p.SetClip(tree)
	p.SetBinder(b)

	if err := p.SetTime(timeline.FromSeconds(1)); err != nil {
		t.Fatal(err)
	}
	if len(scene.writes) != 1 {
		t.Fatalf("expected one property write, got %d", len(scene.writes))
	}
	if scene.writes[0].value.Float != 0.5 {
		t.Fatalf("expected sampled value 0.5, got %v", scene.writes[0].value.Float)
	}
	if p.Mode() != Scrubbing {
		t.Fatal("SetTime should switch to Scrubbing")
	}
}

func TestMutedTrackIsSkipped(t *testing.T) {
	tree, prop := buildTreeWithFloatProp(t)
	scene := &recordingScene{}
	b := binder.New(scene, 8)

	p := New(value.NewRegistry())
	p.SetClip(tree)
	p.SetBinder(b)
	p.SetMuted(prop.ID, true)

	if err := p.SetTime(timeline.FromSeconds(1)); err != nil {
		t.Fatal(err)
	}
	if len(scene.writes) != 0 {
		t.Fatalf("expected muted track to produce no writes, got %d", len(scene.writes))
	}
}

func TestAdvanceNoopWhilePaused(t *testing.T) {
	tree, _ := buildTreeWithFloatProp(t)
	scene := &recordingScene{}
	b := binder.New(scene, 8)

	p := New(value.NewRegistry())
	p.SetClip(tree)
	p.SetBinder(b)
	p.Pause()

	before := p.Time()
	if err := p.Advance(timeline.FromSeconds(1)); err != nil {
		t.Fatal(err)
	}
	if p.Time() != before {
		t.Fatal("expected time frozen while Paused")
	}
}

func TestBoneWritesRouteThroughAccessorNotDirectScene(t *testing.T) {
	tree := track.NewTree()
	root := track.NewRefTrack("skeleton")
	_ = tree.AddRoot(root)
	bone := track.NewBonePropTrack("hip")
	seq := block.NewSequence(block.NewConstant(timeline.NewRange(0, timeline.FromSeconds(10)), value.Value{Kind: value.KindTransform, Transform: value.IdentityTransform}))
	bone.Blocks = seq
	_ = tree.AddChild(root.ID, bone)

	scene := &recordingScene{}
	b := binder.New(scene, 8)
	p := New(value.NewRegistry())
	p.SetClip(tree)
	p.SetBinder(b)
	p.SetBoneTopology([]string{"hip"}, func(string) value.Transform { return value.IdentityTransform })

	if err := p.SetTime(timeline.FromSeconds(1)); err != nil {
		t.Fatal(err)
	}
	if len(scene.writes) != 1 {
		t.Fatalf("expected exactly one scene write (via accessor composition), got %d", len(scene.writes))
	}
	if scene.writes[0].propertyPath[0] != "bones" {
		t.Fatalf("expected the write to target the scene's bones surface, got %v", scene.writes[0].propertyPath)
	}
}
