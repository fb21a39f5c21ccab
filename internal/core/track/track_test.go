package track

import (
	"testing"

	"github.com/gowvp/moviemaker/internal/core/value"
)

func TestAddChildAndFind(t *testing.T) {
	tree := NewTree()
	root := NewRefTrack("root")
	if err := tree.AddRoot(root); err != nil {
		t.Fatal(err)
	}
	prop := NewPropTrack("position", value.KindVec3)
	if err := tree.AddChild(root.ID, prop); err != nil {
		t.Fatal(err)
	}
	got, err := tree.Find(prop.ID)
	if err != nil || got != prop {
		t.Fatalf("expected to find attached prop, err=%v got=%v", err, got)
	}
	byName, err := tree.FindChild(root.ID, "position")
	if err != nil || byName != prop {
		t.Fatalf("FindChild failed: err=%v got=%v", err, byName)
	}
}

func TestAddChildDuplicateNameRejected(t *testing.T) {
	tree := NewTree()
	root := NewRefTrack("root")
	_ = tree.AddRoot(root)
	_ = tree.AddChild(root.ID, NewPropTrack("x", value.KindFloat))
	err := tree.AddChild(root.ID, NewPropTrack("x", value.KindFloat))
	if err == nil {
		t.Fatal("expected duplicate name rejection")
	}
}

func TestAddChildToLockedParentRejected(t *testing.T) {
	tree := NewTree()
	root := NewRefTrack("root")
	_ = tree.AddRoot(root)
	_ = tree.SetLocked(root.ID, true)
	err := tree.AddChild(root.ID, NewPropTrack("x", value.KindFloat))
	if err == nil {
		t.Fatal("expected locked parent rejection")
	}
}

func TestAddChildCyclePrevented(t *testing.T) {
	tree := NewTree()
	root := NewRefTrack("root")
	_ = tree.AddRoot(root)
	child := NewRefTrack("child")
	_ = tree.AddChild(root.ID, child)
	grandchild := NewRefTrack("grandchild")
	_ = tree.AddChild(child.ID, grandchild)

	// Attaching root under its own grandchild must fail.
	if err := tree.AddChild(grandchild.ID, root); err == nil {
		t.Fatal("expected cycle rejection")
	}
	// Self-parenting must also fail.
	if err := tree.AddChild(child.ID, child); err == nil {
		t.Fatal("expected self-parent rejection")
	}
}

func TestRemoveDropsSubtree(t *testing.T) {
	tree := NewTree()
	root := NewRefTrack("root")
	_ = tree.AddRoot(root)
	child := NewRefTrack("child")
	_ = tree.AddChild(root.ID, child)
	grandchild := NewPropTrack("leaf", value.KindFloat)
	_ = tree.AddChild(child.ID, grandchild)

	if err := tree.Remove(child.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := tree.Find(child.ID); err == nil {
		t.Fatal("expected child to be gone")
	}
	if _, err := tree.Find(grandchild.ID); err == nil {
		t.Fatal("expected grandchild to be gone along with its parent")
	}
}

func TestPathReturnsNamesRootToNode(t *testing.T) {
	tree := NewTree()
	root := NewRefTrack("root")
	_ = tree.AddRoot(root)
	child := NewRefTrack("child")
	_ = tree.AddChild(root.ID, child)
	leaf := NewPropTrack("leaf", value.KindFloat)
	_ = tree.AddChild(child.ID, leaf)

	path, err := tree.Path(leaf.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"root", "child", "leaf"}
	if len(path) != len(want) {
		t.Fatalf("got %v want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("got %v want %v", path, want)
		}
	}
}

func TestIterDepthFirstVisitsAll(t *testing.T) {
	tree := NewTree()
	root := NewRefTrack("root")
	_ = tree.AddRoot(root)
	a := NewRefTrack("a")
	b := NewRefTrack("b")
	_ = tree.AddChild(root.ID, a)
	_ = tree.AddChild(root.ID, b)

	var names []string
	tree.IterDepthFirst(func(tr *Track) bool {
		names = append(names, tr.Name)
		return true
	})
	if len(names) != 3 {
		t.Fatalf("expected 3 visits, got %v", names)
	}
}
