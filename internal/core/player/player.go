// Package player drives time-based sampling of a track tree and writes
// sampled values through a Binder, per spec.md §3/§4.F/§5.
package player

import (
	"sync"

	"github.com/gowvp/moviemaker/internal/core/binder"
	"github.com/gowvp/moviemaker/internal/core/moverr"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/track"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// Mode is the Player's current transport state.
type Mode int

const (
	Paused Mode = iota
	Playing
	Scrubbing
)

// BonePose resolves a bone's base (un-overridden) local transform, used by
// the BoneAccessor when no write landed on a given bone this tick.
type BonePose func(bone string) value.Transform

// Player samples a clip's property tracks at a time and writes the
// results through a Binder, honoring the ordering guarantee from spec.md
// §5: all property writes complete before bone-accessor composition, which
// completes before the render hook runs.
type Player struct {
	mu sync.Mutex

	tree     *track.Tree
	bind     binder.Binder
	bones    *binder.BoneAccessor
	registry *value.Registry

	// mutedTrackIDs are excluded from sampling. The Recorder uses this to
	// keep live values from being contaminated while it records over them.
	mutedTrackIDs map[string]bool

	time timeline.T
	rate float64
	mode Mode

	boneOrder []string
	basePose  BonePose

	onRender func()
}

// New builds a Player. The playback multiplier used by Advance while
// Playing starts at 1.0 (real time); SetRate changes it.
func New(registry *value.Registry) *Player {
	return &Player{
		registry:      registry,
		bones:         binder.NewBoneAccessor(),
		mutedTrackIDs: make(map[string]bool),
		rate:          1.0,
	}
}

// SetClip attaches the track tree to sample.
func (p *Player) SetClip(tree *track.Tree) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tree = tree
}

// SetBinder attaches the write-through target.
func (p *Player) SetBinder(b binder.Binder) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bind = b
}

// SetBoneTopology configures the bone composition order (parents before
// children) and the fallback pose function used for un-overridden bones.
func (p *Player) SetBoneTopology(order []string, base BonePose) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.boneOrder = order
	p.basePose = base
}

// SetRate configures the wall-clock multiplier used while Playing.
func (p *Player) SetRate(rate float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rate = rate
}

// SetMuted excludes or re-includes trackID from sampling, used by the
// Recorder to present a filtered view of tracks currently being recorded.
func (p *Player) SetMuted(trackID string, muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if muted {
		p.mutedTrackIDs[trackID] = true
	} else {
		delete(p.mutedTrackIDs, trackID)
	}
}

// SetOnRender installs the hook invoked after bone composition completes,
// representing the scene's render step (out of scope for this engine).
func (p *Player) SetOnRender(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onRender = fn
}

// Time returns the current sample time.
func (p *Player) Time() timeline.T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.time
}

// Mode returns the current transport mode.
func (p *Player) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Play switches to Playing without changing the current time.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = Playing
}

// Pause switches to Paused, freezing time.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = Paused
}

// SetTime scrubs to t externally, switching to Scrubbing and sampling
// immediately.
func (p *Player) SetTime(t timeline.T) error {
	p.mu.Lock()
	p.time = t
	p.mode = Scrubbing
	p.mu.Unlock()
	return p.sampleAndWrite()
}

// Advance moves time forward by delta while Playing (scaled by rate), then
// samples. It is a no-op while Paused; while Scrubbing it still advances
// (scrubbing only describes how the last SetTime happened).
func (p *Player) Advance(delta timeline.T) error {
	p.mu.Lock()
	if p.mode == Paused {
		p.mu.Unlock()
		return nil
	}
	scaled := delta.ScaleRat(int64(p.rate*1000), 1000)
	p.time = p.time.Add(scaled)
	p.mu.Unlock()
	return p.sampleAndWrite()
}

func (p *Player) sampleAndWrite() error {
	p.mu.Lock()
	tree := p.tree
	bind := p.bind
	registry := p.registry
	t := p.time
	muted := p.mutedTrackIDs
	boneOrder := p.boneOrder
	basePose := p.basePose
	onRender := p.onRender
	p.mu.Unlock()

	if tree == nil || bind == nil || registry == nil {
		return moverr.ErrNotBound.Withf("player has no clip/binder bound")
	}

	p.bones.Clear()

	// The Player never aborts a sample pass: an unresolved track or a
	// failed write is skipped for this tick (spec.md §7), not propagated.
	tree.IterDepthFirst(func(tr *track.Track) bool {
		if tr.Kind != track.KindProp {
			return true
		}
		if muted[tr.ID] {
			return true
		}
		ty, err := registry.Lookup(tr.ValueKind)
		if err != nil {
			return true
		}
		v := tr.Blocks.GetValueAt(t, ty)

		if tr.IsBone {
			if v.Kind == value.KindTransform {
				p.bones.Write(tr.Name, v.Transform)
			}
			return true
		}

		parentPath, err := parentScenePath(tree, tr)
		if err != nil {
			return true
		}
		ref, err := bind.ResolveRef(parentPath)
		if err != nil {
			return true
		}
		_ = bind.WriteProperty(ref, []string{tr.Name}, v)
		return true
	})

	if len(boneOrder) > 0 && basePose != nil {
		_ = p.bones.Apply(boneOrder, basePose, func(bone string, tv value.Transform) error {
			ref, err := bind.ResolveRef([]string{"skeleton"})
			if err != nil {
				return err
			}
			return bind.WriteProperty(ref, []string{"bones", bone}, value.Value{Kind: value.KindTransform, Transform: tv})
		})
	}

	if onRender != nil {
		onRender()
	}
	return nil
}

// parentScenePath returns the scene path (root-to-node Ref track names) of
// tr's nearest Ref ancestor, which the Binder resolves to a handle before
// the property write lands.
func parentScenePath(tree *track.Tree, tr *track.Track) ([]string, error) {
	if tr == nil {
		return nil, moverr.ErrTrackNotFound.Withf("nil track")
	}
	parent := tr.Parent()
	if parent == nil {
		return nil, moverr.ErrNotBound.Withf("track[%s] has no Ref ancestor", tr.Name)
	}
	return tree.Path(parent.ID)
}
