// Package track implements the track tree: the hierarchy of Ref and Prop
// tracks that hold a clip's animatable data, per spec.md §3/§4.D.
package track

import (
	"sync"

	"github.com/google/uuid"

	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/moverr"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// Kind discriminates the two track variants.
type Kind int

const (
	// KindRef tracks hold no data of their own; they exist purely to
	// organize children (e.g. a bone or scene-node grouping track).
	KindRef Kind = iota
	// KindProp tracks hold a block.Sequence of a single value.Kind.
	KindProp
)

// Track is one node of the tree: either a Ref (pure grouping) or a Prop
// (leaf data track).
type Track struct {
	ID     string
	Name   string
	Kind   Kind
	Locked bool

	// ValueKind is meaningful only for KindProp.
	ValueKind value.Kind
	Blocks    *block.Sequence

	// IsBone marks a KindProp track whose writes route through the
	// nearest BoneAccessor instead of a direct scene property write
	// (spec.md §4.E: bone properties are resolved through a BoneAccessor).
	IsBone bool

	parent   *Track
	children []*Track
}

// Tree owns the root set of a clip's tracks and guards all structural
// mutation with a single mutex, mirroring the serialized-access style the
// rest of this codebase uses around its domain Cores.
type Tree struct {
	mu    sync.RWMutex
	roots []*Track
	byID  map[string]*Track
}

// NewTree builds an empty track tree.
func NewTree() *Tree {
	return &Tree{byID: make(map[string]*Track)}
}

// NewRefTrack constructs a new, unattached Ref track with a fresh GUID.
func NewRefTrack(name string) *Track {
	return &Track{ID: uuid.NewString(), Name: name, Kind: KindRef}
}

// NewPropTrack constructs a new, unattached Prop track with a fresh GUID.
func NewPropTrack(name string, kind value.Kind) *Track {
	return &Track{ID: uuid.NewString(), Name: name, Kind: KindProp, ValueKind: kind, Blocks: block.NewSequence()}
}

// NewBonePropTrack constructs a Prop track whose writes route through a
// BoneAccessor rather than a direct scene property write.
func NewBonePropTrack(boneName string) *Track {
	tr := NewPropTrack(boneName, value.KindTransform)
	tr.IsBone = true
	return tr
}

// Find looks up a track by ID anywhere in the tree.
func (t *Tree) Find(id string) (*Track, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tr, ok := t.byID[id]
	if !ok {
		return nil, moverr.ErrTrackNotFound.Withf("id[%s]", id)
	}
	return tr, nil
}

// FindChild looks up a direct child of parent by name.
func (t *Tree) FindChild(parentID, name string) (*Track, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	parent, ok := t.byID[parentID]
	if !ok {
		return nil, moverr.ErrTrackNotFound.Withf("parent id[%s]", parentID)
	}
	for _, c := range parent.children {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, moverr.ErrTrackNotFound.Withf("child[%s] under parent[%s]", name, parentID)
}

// AddRoot attaches tr as a top-level track.
func (t *Tree) AddRoot(tr *Track) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.roots {
		if r.Name == tr.Name {
			return moverr.ErrDuplicateName.Withf("root name[%s]", tr.Name)
		}
	}
	t.roots = append(t.roots, tr)
	t.byID[tr.ID] = tr
	return nil
}

// AddChild attaches child under parentID. Fails with ErrDuplicateName if a
// sibling already holds child.Name, with ErrLocked if the parent is locked,
// and with ErrCyclicParent if child is an ancestor of parent (self-parenting
// included).
func (t *Tree) AddChild(parentID string, child *Track) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	parent, ok := t.byID[parentID]
	if !ok {
		return moverr.ErrTrackNotFound.Withf("parent id[%s]", parentID)
	}
	if parent.Locked {
		return moverr.ErrLocked.Withf("parent[%s]", parent.Name)
	}
	for _, c := range parent.children {
		if c.Name == child.Name {
			return moverr.ErrDuplicateName.Withf("child name[%s] under parent[%s]", child.Name, parent.Name)
		}
	}
	if wouldCycle(parent, child) {
		return moverr.ErrCyclicParent.Withf("child[%s] is an ancestor of parent[%s]", child.Name, parent.Name)
	}

	child.parent = parent
	parent.children = append(parent.children, child)
	t.byID[child.ID] = child
	registerSubtree(t.byID, child)
	return nil
}

// wouldCycle reports whether attaching child under parent would make parent
// a descendant of child (including child == parent).
func wouldCycle(parent, child *Track) bool {
	for n := parent; n != nil; n = n.parent {
		if n == child {
			return true
		}
	}
	return false
}

func registerSubtree(byID map[string]*Track, root *Track) {
	byID[root.ID] = root
	for _, c := range root.children {
		registerSubtree(byID, c)
	}
}

// Remove detaches the track with id (and its whole subtree) from the tree.
func (t *Tree) Remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	tr, ok := t.byID[id]
	if !ok {
		return moverr.ErrTrackNotFound.Withf("id[%s]", id)
	}
	if tr.parent != nil && tr.parent.Locked {
		return moverr.ErrLocked.Withf("parent[%s]", tr.parent.Name)
	}

	if tr.parent == nil {
		for i, r := range t.roots {
			if r.ID == id {
				t.roots = append(t.roots[:i], t.roots[i+1:]...)
				break
			}
		}
	} else {
		siblings := tr.parent.children
		for i, c := range siblings {
			if c.ID == id {
				tr.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	unregisterSubtree(t.byID, tr)
	return nil
}

func unregisterSubtree(byID map[string]*Track, root *Track) {
	delete(byID, root.ID)
	for _, c := range root.children {
		unregisterSubtree(byID, c)
	}
}

// Path returns the list of names from a root track down to tr, inclusive.
func (t *Tree) Path(id string) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tr, ok := t.byID[id]
	if !ok {
		return nil, moverr.ErrTrackNotFound.Withf("id[%s]", id)
	}
	var names []string
	for n := tr; n != nil; n = n.parent {
		names = append([]string{n.Name}, names...)
	}
	return names, nil
}

// Roots returns the top-level tracks, in insertion order.
func (t *Tree) Roots() []*Track {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]*Track(nil), t.roots...)
}

// Children returns tr's direct children, in insertion order.
func (tr *Track) Children() []*Track {
	return append([]*Track(nil), tr.children...)
}

// Parent returns tr's parent, or nil for a root track.
func (tr *Track) Parent() *Track {
	return tr.parent
}

// IterDepthFirst visits every track reachable from the tree's roots in
// pre-order, stopping early if visit returns false.
func (t *Tree) IterDepthFirst(visit func(*Track) bool) {
	t.mu.RLock()
	roots := append([]*Track(nil), t.roots...)
	t.mu.RUnlock()
	for _, r := range roots {
		if !iterDepthFirst(r, visit) {
			return
		}
	}
}

func iterDepthFirst(tr *Track, visit func(*Track) bool) bool {
	if !visit(tr) {
		return false
	}
	for _, c := range tr.children {
		if !iterDepthFirst(c, visit) {
			return false
		}
	}
	return true
}

// SetLocked toggles tr's lock flag. A locked track refuses AddChild/Remove
// operations targeting it or its direct children.
func (t *Tree) SetLocked(id string, locked bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	tr, ok := t.byID[id]
	if !ok {
		return moverr.ErrTrackNotFound.Withf("id[%s]", id)
	}
	tr.Locked = locked
	return nil
}
