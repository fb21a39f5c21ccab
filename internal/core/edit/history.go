// Package edit implements undo-aware mutation of a track tree: history
// snapshots, copy/paste/cut/delete/move, and the clipboard codec, per
// spec.md §3/§4.H/§6.2.
package edit

import (
	"github.com/jinzhu/copier"

	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/track"
)

// snapshot captures one track's block state for undo.
type snapshot struct {
	trackID string
	blocks  []block.Block
}

// entry is one History log entry: a user-visible label and the snapshots
// needed to restore the affected tracks.
type entry struct {
	label     string
	snapshots []snapshot
}

// History is the single undo log every mutation in this package goes
// through.
type History struct {
	tree    *track.Tree
	entries []entry
}

// NewHistory builds a History bound to tree.
func NewHistory(tree *track.Tree) *History {
	return &History{tree: tree}
}

// snapshotTracks captures the current block state of the given track IDs. A
// deep copy is required, not just a slice copy: block.Block carries a
// Samples slice a later live edit could mutate in place, which would
// otherwise corrupt an already-pushed snapshot.
func (h *History) snapshotTracks(trackIDs []string) []snapshot {
	snaps := make([]snapshot, 0, len(trackIDs))
	for _, id := range trackIDs {
		tr, err := h.tree.Find(id)
		if err != nil {
			continue
		}
		live := tr.Blocks.Blocks()
		blocks := make([]block.Block, len(live))
		_ = copier.CopyWithOption(&blocks, &live, copier.Option{DeepCopy: true})
		snaps = append(snaps, snapshot{trackID: id, blocks: blocks})
	}
	return snaps
}

// push records label with a pre-mutation snapshot of trackIDs, to be
// restored by the next Undo.
func (h *History) push(label string, trackIDs []string) {
	h.entries = append(h.entries, entry{label: label, snapshots: h.snapshotTracks(trackIDs)})
}

// Undo restores the most recent entry's tracks to their pre-mutation
// block state and returns its label, or "" if the log is empty.
func (h *History) Undo() string {
	if len(h.entries) == 0 {
		return ""
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]

	for _, snap := range last.snapshots {
		tr, err := h.tree.Find(snap.trackID)
		if err != nil {
			continue
		}
		tr.Blocks = block.NewSequence(snap.blocks...)
	}
	return last.label
}

// Labels returns the undo log's labels, oldest first, for UI display.
func (h *History) Labels() []string {
	labels := make([]string, len(h.entries))
	for i, e := range h.entries {
		labels[i] = e.label
	}
	return labels
}
