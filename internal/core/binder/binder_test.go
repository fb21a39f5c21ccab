package binder

import (
	"errors"
	"testing"

	"github.com/gowvp/moviemaker/internal/core/value"
)

type stubScene struct {
	resolveCalls int
	refs         map[string]any
}

func (s *stubScene) ResolveRef(path []string) (any, error) {
	s.resolveCalls++
	key := pathKey(path)
	ref, ok := s.refs[key]
	if !ok {
		return nil, errors.New("no such path")
	}
	return ref, nil
}

func (s *stubScene) ResolveProperty(ref any, propertyPath []string) (value.Value, error) {
	return value.Value{}, nil
}

func (s *stubScene) WriteProperty(ref any, propertyPath []string, v value.Value) error {
	return nil
}

func TestResolveRefCaches(t *testing.T) {
	scene := &stubScene{refs: map[string]any{"a/b": "handle"}}
	b := New(scene, 8)

	ref1, err := b.ResolveRef([]string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	ref2, err := b.ResolveRef([]string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if ref1 != ref2 {
		t.Fatalf("expected identical cached ref, got %v and %v", ref1, ref2)
	}
	if scene.resolveCalls != 1 {
		t.Fatalf("expected scene resolved once, got %d calls", scene.resolveCalls)
	}
}

func TestNotifyEvictsSubtree(t *testing.T) {
	scene := &stubScene{refs: map[string]any{"a/b": "handle"}}
	b := New(scene, 8)
	_, _ = b.ResolveRef([]string{"a", "b"})
	b.Notify([]string{"a"})
	_, _ = b.ResolveRef([]string{"a", "b"})
	if scene.resolveCalls != 2 {
		t.Fatalf("expected re-resolution after Notify, got %d calls", scene.resolveCalls)
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	scene := &stubScene{refs: map[string]any{"a": 1, "b": 2, "c": 3}}
	b := New(scene, 2)
	_, _ = b.ResolveRef([]string{"a"})
	_, _ = b.ResolveRef([]string{"b"})
	_, _ = b.ResolveRef([]string{"c"}) // evicts "a"

	before := scene.resolveCalls
	_, _ = b.ResolveRef([]string{"a"})
	if scene.resolveCalls != before+1 {
		t.Fatal("expected 'a' to have been evicted and re-resolved")
	}
}

func TestBoneAccessorAppliesOverridesInOrder(t *testing.T) {
	a := NewBoneAccessor()
	a.Write("hip", value.Transform{Position: value.Vec3{X: 1}, Rotation: value.IdentityQuat, Scale: value.Vec3{X: 1, Y: 1, Z: 1}})

	var applied []string
	base := func(bone string) value.Transform { return value.IdentityTransform }
	err := a.Apply([]string{"hip", "spine"}, base, func(bone string, t value.Transform) error {
		applied = append(applied, bone)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) != 2 || applied[0] != "hip" || applied[1] != "spine" {
		t.Fatalf("expected hip then spine, got %v", applied)
	}
}

func TestBoneAccessorAccumulatesWrites(t *testing.T) {
	a := NewBoneAccessor()
	a.Write("hip", value.Transform{Position: value.Vec3{X: 1}, Rotation: value.IdentityQuat, Scale: value.Vec3{X: 1, Y: 1, Z: 1}})
	a.Write("hip", value.Transform{Position: value.Vec3{X: 1}, Rotation: value.IdentityQuat, Scale: value.Vec3{X: 1, Y: 1, Z: 1}})

	var got value.Transform
	_ = a.Apply([]string{"hip"}, func(string) value.Transform { return value.IdentityTransform }, func(bone string, t value.Transform) error {
		got = t
		return nil
	})
	if got.Position.X != 2 {
		t.Fatalf("expected accumulated position.X=2, got %v", got.Position.X)
	}
}
