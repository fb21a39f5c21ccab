package edit

import (
	"testing"

	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/track"
	"github.com/gowvp/moviemaker/internal/core/value"
)

func buildFloatTrack(t *testing.T, val float64) (*track.Tree, *track.Track) {
	tree := track.NewTree()
	root := track.NewRefTrack("root")
	if err := tree.AddRoot(root); err != nil {
		t.Fatal(err)
	}
	prop := track.NewPropTrack("x", value.KindFloat)
	prop.Blocks = block.NewSequence(block.NewConstant(timeline.NewRange(0, timeline.FromSeconds(10)), value.Value{Kind: value.KindFloat, Float: val}))
	if err := tree.AddChild(root.ID, prop); err != nil {
		t.Fatal(err)
	}
	return tree, prop
}

func TestCopyPasteRoundTrip(t *testing.T) {
	tree, prop := buildFloatTrack(t, 7)
	ed := NewEditor(tree)

	sel := Selection{TrackIDs: []string{prop.ID}, Range: timeline.NewRange(0, timeline.FromSeconds(10))}
	data, err := ed.Copy(sel)
	if err != nil {
		t.Fatal(err)
	}

	dest := track.NewPropTrack("y", value.KindFloat)
	root, _ := tree.Find(tree.Roots()[0].ID)
	if err := tree.AddChild(root.ID, dest); err != nil {
		t.Fatal(err)
	}

	if err := ed.Paste(data, timeline.FromSeconds(20), dest.ID); err != nil {
		t.Fatal(err)
	}
	reg := value.NewRegistry()
	ty, err := reg.Lookup(value.KindFloat)
	if err != nil {
		t.Fatal(err)
	}
	got := dest.Blocks.GetValueAt(timeline.FromSeconds(25), ty)
	if got.Float != 7 {
		t.Fatalf("expected pasted constant 7, got %v", got.Float)
	}
}

func TestPasteTypeMismatchRejected(t *testing.T) {
	tree, prop := buildFloatTrack(t, 1)
	ed := NewEditor(tree)
	sel := Selection{TrackIDs: []string{prop.ID}, Range: timeline.NewRange(0, timeline.FromSeconds(10))}
	data, err := ed.Copy(sel)
	if err != nil {
		t.Fatal(err)
	}

	root, _ := tree.Find(tree.Roots()[0].ID)
	boolDest := track.NewPropTrack("flag", value.KindBool)
	_ = tree.AddChild(root.ID, boolDest)

	if err := ed.Paste(data, 0, boolDest.ID); err == nil {
		t.Fatal("expected TypeMismatch on paste")
	}
	if len(boolDest.Blocks.Blocks()) != 0 {
		t.Fatal("failed paste must not mutate the destination track")
	}
}

func TestDeleteThenUndoRestores(t *testing.T) {
	tree, prop := buildFloatTrack(t, 1)
	ed := NewEditor(tree)
	before := append([]block.Block(nil), prop.Blocks.Blocks()...)

	sel := Selection{TrackIDs: []string{prop.ID}, Range: timeline.NewRange(timeline.FromSeconds(2), timeline.FromSeconds(5))}
	if err := ed.Delete(sel); err != nil {
		t.Fatal(err)
	}
	if len(prop.Blocks.Blocks()) == len(before) {
		t.Fatal("expected delete to change block count")
	}

	label := ed.Undo()
	if label != "Delete" {
		t.Fatalf("expected Delete label, got %q", label)
	}
	after := prop.Blocks.Blocks()
	if len(after) != len(before) {
		t.Fatalf("expected undo to restore block count, got %d want %d", len(after), len(before))
	}
}

func TestCutRemovesAfterCopy(t *testing.T) {
	tree, prop := buildFloatTrack(t, 1)
	ed := NewEditor(tree)
	sel := Selection{TrackIDs: []string{prop.ID}, Range: timeline.NewRange(timeline.FromSeconds(2), timeline.FromSeconds(5))}
	data, err := ed.Cut(sel)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty clipboard data from cut")
	}
	blocks := prop.Blocks.GetBlocks(sel.Range)
	for _, b := range blocks {
		if b.Kind == block.KindConstant && b.Constant.Float == 1 {
			t.Fatal("expected original data removed after cut")
		}
	}
}

func TestMoveShiftsBlocks(t *testing.T) {
	tree, prop := buildFloatTrack(t, 3)
	ed := NewEditor(tree)
	sel := Selection{TrackIDs: []string{prop.ID}, Range: timeline.NewRange(0, timeline.FromSeconds(10))}
	if err := ed.Move(sel, timeline.FromSeconds(5)); err != nil {
		t.Fatal(err)
	}
	blocks := prop.Blocks.Blocks()
	if len(blocks) != 1 || blocks[0].Range.Start != timeline.FromSeconds(5) {
		t.Fatalf("expected single block shifted to start=5s, got %+v", blocks)
	}
}
