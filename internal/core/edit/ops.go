package edit

import (
	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/moverr"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/track"
)

// Selection names the tracks and time range an edit operation applies to.
type Selection struct {
	TrackIDs []string
	Range    timeline.Range
}

// Editor bundles a track tree with its History log and performs the
// canonical edit operations (spec.md §4.H), each recording an undo
// snapshot before mutating.
type Editor struct {
	tree    *track.Tree
	history *History
}

// NewEditor builds an Editor over tree, creating its own History log.
func NewEditor(tree *track.Tree) *Editor {
	return &Editor{tree: tree, history: NewHistory(tree)}
}

// History returns the Editor's undo log.
func (e *Editor) History() *History { return e.history }

// Copy serializes the blocks under sel into a clipboard document, anchored
// at the earliest block start time actually copied.
func (e *Editor) Copy(sel Selection) ([]byte, error) {
	groups := make(map[string]Group, len(sel.TrackIDs))
	anchor := timeline.T(1<<63 - 1)
	sawBlock := false

	for _, id := range sel.TrackIDs {
		tr, err := e.tree.Find(id)
		if err != nil {
			return nil, err
		}
		if tr.Kind != track.KindProp {
			continue
		}
		blocks := tr.Blocks.GetBlocks(sel.Range)
		if len(blocks) == 0 {
			continue
		}
		wire := make([]WireBlock, len(blocks))
		for i, b := range blocks {
			wire[i] = toWireBlock(b)
			if b.Range.Start < anchor {
				anchor = b.Range.Start
				sawBlock = true
			}
		}
		groups[id] = Group{GUID: id, TargetType: tr.ValueKind, Blocks: wire}
	}
	if !sawBlock {
		anchor = sel.Range.Start
	}
	return EncodeClipboard(anchor, groups)
}

// Paste applies a clipboard document at playheadTime, shifting each
// group's blocks by playheadTime-anchorTime and inserting them via
// add_range (overwrite policy). When the clipboard holds exactly one
// group and targetTrackID is non-empty, the group pastes onto
// targetTrackID regardless of its own guid (the "paste onto the selected
// track" rule); otherwise groups paste by guid match.
func (e *Editor) Paste(data []byte, playheadTime timeline.T, targetTrackID string) error {
	doc, err := DecodeClipboard(data)
	if err != nil {
		return err
	}
	offset := playheadTime - timeline.T(doc.Time)

	destFor := func(g Group) (string, error) {
		if targetTrackID != "" && len(doc.Groups) == 1 {
			return targetTrackID, nil
		}
		return g.GUID, nil
	}

	type planned struct {
		track  *track.Track
		blocks []block.Block
	}
	var plan []planned
	var affected []string

	for _, g := range doc.Groups {
		destID, err := destFor(g)
		if err != nil {
			return err
		}
		tr, err := e.tree.Find(destID)
		if err != nil {
			return err
		}
		if tr.Locked {
			return moverr.ErrLocked.Withf("track[%s]", tr.Name)
		}
		if tr.ValueKind != g.TargetType {
			return moverr.ErrTypeMismatch.Withf("paste target[%s] kind[%v] payload kind[%v]", tr.Name, tr.ValueKind, g.TargetType)
		}
		blocks := make([]block.Block, len(g.Blocks))
		for i, w := range g.Blocks {
			b, err := fromWireBlock(w)
			if err != nil {
				return err
			}
			blocks[i] = b.Shift(offset)
		}
		plan = append(plan, planned{track: tr, blocks: blocks})
		affected = append(affected, destID)
	}

	// Validation passed for every group: now record the undo snapshot and
	// apply, so a failed Paste never touches the project (spec.md §7).
	e.history.push("Paste", affected)
	for _, p := range plan {
		p.track.Blocks.AddRange(p.blocks)
	}
	return nil
}

// Delete removes blocks/keyframes in sel via remove(range) per track.
func (e *Editor) Delete(sel Selection) error {
	tracks, err := e.resolveTracks(sel.TrackIDs)
	if err != nil {
		return err
	}
	e.history.push("Delete", sel.TrackIDs)
	for _, tr := range tracks {
		if tr.Locked {
			continue
		}
		tr.Blocks.Remove(sel.Range)
	}
	return nil
}

// resolveTracks looks up every id, failing the whole operation before any
// mutation happens if one is missing.
func (e *Editor) resolveTracks(ids []string) ([]*track.Track, error) {
	tracks := make([]*track.Track, len(ids))
	for i, id := range ids {
		tr, err := e.tree.Find(id)
		if err != nil {
			return nil, err
		}
		tracks[i] = tr
	}
	return tracks, nil
}

// Cut is Copy followed by Delete.
func (e *Editor) Cut(sel Selection) ([]byte, error) {
	data, err := e.Copy(sel)
	if err != nil {
		return nil, err
	}
	if err := e.Delete(sel); err != nil {
		return nil, err
	}
	return data, nil
}

// Move shifts the blocks in sel by delta, applying overwrite policy at the
// destination.
func (e *Editor) Move(sel Selection, delta timeline.T) error {
	tracks, err := e.resolveTracks(sel.TrackIDs)
	if err != nil {
		return err
	}
	e.history.push("Move", sel.TrackIDs)
	for _, tr := range tracks {
		if tr.Locked {
			continue
		}
		moving := tr.Blocks.GetBlocks(sel.Range)
		tr.Blocks.Remove(sel.Range)
		shifted := make([]block.Block, len(moving))
		for i, b := range moving {
			shifted[i] = b.Shift(delta)
		}
		tr.Blocks.AddRange(shifted)
	}
	return nil
}

// Undo restores the most recent operation's affected tracks.
func (e *Editor) Undo() string {
	return e.history.Undo()
}
