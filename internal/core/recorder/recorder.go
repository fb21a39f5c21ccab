// Package recorder implements live-track capture: sampling a Binder's
// property values at a fixed rate into Samples blocks, per spec.md
// §3/§4.G.
package recorder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gowvp/moviemaker/internal/core/binder"
	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/moverr"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/track"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// State is a single track's recording state machine state.
type State int

const (
	Idle State = iota
	Armed
	Recording
	Finished
)

// SourceClip is the provenance record emitted on Commit: a fresh identity
// plus metadata describing where the recorded data came from.
type SourceClip struct {
	ID        string
	Origin    string
	StartedAt time.Time
}

// Storer persists SourceClip provenance records.
type Storer interface {
	SourceClip() SourceClipStorer
}

// SourceClipStorer is the instantiation interface for SourceClip rows.
type SourceClipStorer interface {
	Add(ctx context.Context, sc *SourceClip) error
}

// Core is the recorder's business domain: arming/recording tracked
// properties off a Binder and merging the result back into a track tree.
type Core struct {
	store Storer

	mu         sync.Mutex
	binder     binder.Binder
	registry   *value.Registry
	sampleRate int
	startTime  timeline.T

	tracks map[string]*trackState
}

type trackState struct {
	track    *track.Track
	state    State
	samples  []value.Value
	blockAt  timeline.T
	last     value.Value
	finished []block.Block
}

// Option configures a Core at construction.
type Option func(*Core)

// WithSampleRate sets the fixed sample rate new recordings align to.
func WithSampleRate(rate int) Option {
	return func(c *Core) { c.sampleRate = rate }
}

// NewCore builds a recorder Core bound to binder b for sampling.
func NewCore(store Storer, b binder.Binder, registry *value.Registry, opts ...Option) *Core {
	c := &Core{
		store:      store,
		binder:     b,
		registry:   registry,
		sampleRate: 30,
		tracks:     make(map[string]*trackState),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Arm transitions tr from Idle to Armed: the recorder begins watching its
// Binder-resolved value, opening a block on the next advance.
func (c *Core) Arm(tr *track.Track) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tr.Locked {
		return moverr.ErrLocked.Withf("track[%s]", tr.Name)
	}
	c.tracks[tr.ID] = &trackState{track: tr, state: Armed}
	return nil
}

// Start begins recording at startTime: Armed tracks open their block on the
// first advance that follows.
func (c *Core) Start(startTime timeline.T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = startTime
}

// Advance samples every tracked property's current Binder value at t and
// applies the per-tick state machine (spec.md §4.G). delta must be > 0 for
// any progress to happen.
func (c *Core) Advance(ctx context.Context, t timeline.T, delta timeline.T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if delta <= 0 {
		return nil
	}

	for _, ts := range c.tracks {
		if ts.track.Locked {
			continue
		}
		ty, err := c.registry.Lookup(ts.track.ValueKind)
		if err != nil {
			return err
		}
		v, err := c.sampleValue(ts, ty)
		if err != nil {
			if errors.Is(err, moverr.ErrNotBound) {
				slog.WarnContext(ctx, "recorder track not bound, skipping tick", "track", ts.track.Name, "err", err)
				continue
			}
			return err
		}
		c.advanceTrack(ts, t, v)
	}
	return nil
}

func (c *Core) sampleValue(ts *trackState, ty value.Type) (value.Value, error) {
	parent := ts.track.Parent()
	if parent == nil {
		return value.Value{}, moverr.ErrNotBound.Withf("track[%s] has no Ref ancestor", ts.track.Name)
	}
	ref, err := c.binder.ResolveRef([]string{parent.Name})
	if err != nil {
		return value.Value{}, err
	}
	return c.binder.ResolveProperty(ref, []string{ts.track.Name})
}

func (c *Core) advanceTrack(ts *trackState, t timeline.T, v value.Value) {
	switch ts.state {
	case Idle:
		return
	case Armed:
		// spec.md §4.G item 3: the property is not yet recording, so this
		// tick opens a new Samples block at the floor of the current time,
		// regardless of whether v differs from any prior value. A property
		// that never changes must still accumulate samples here so Stop/
		// Commit has data to collapse into a Constant block (§8 scenario 5).
		ts.state = Recording
		ts.blockAt = t.Floor(timeline.FramePeriod(c.sampleRate))
		ts.samples = []value.Value{v}
		ts.last = v
	case Recording:
		// Always append, identical or changed: spec.md §4.G items 1-2 both
		// result in an appended sample. The distinction only matters for how
		// a real engine might compact storage, which is not modeled here.
		ts.samples = append(ts.samples, v)
		ts.last = v
	case Finished:
		return
	}
}

// Stop finalizes every currently-recording track's in-progress block,
// collapsing it to a Constant block if every sample turned out almost-equal
// (spec.md §8 scenario 5) rather than always emitting Samples.
func (c *Core) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ts := range c.tracks {
		if ts.state != Recording {
			continue
		}
		ty, err := c.registry.Lookup(ts.track.ValueKind)
		if err != nil {
			continue
		}
		r := extendToFrame(timeline.NewRange(ts.blockAt, ts.blockAt), c.sampleRate, len(ts.samples))
		b := block.NewSamplesOrConstant(r, c.sampleRate, ts.samples, ty)
		ts.finished = append(ts.finished, b)
		ts.state = Finished
	}
}

func extendToFrame(r timeline.Range, rate int, sampleCount int) timeline.Range {
	if sampleCount <= 1 {
		return r
	}
	period := timeline.FramePeriod(rate)
	return timeline.NewRange(r.Start, r.Start.Add(period*timeline.T(sampleCount-1)))
}

// FinishedBlocks returns the completed blocks for trackID, for preview
// rendering before Commit.
func (c *Core) FinishedBlocks(trackID string) []block.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts, ok := c.tracks[trackID]
	if !ok {
		return nil
	}
	return append([]block.Block(nil), ts.finished...)
}

// CurrentBlock returns the in-progress block for trackID while Recording,
// for preview rendering.
func (c *Core) CurrentBlock(trackID string) (block.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts, ok := c.tracks[trackID]
	if !ok || ts.state != Recording || len(ts.samples) == 0 {
		return block.Block{}, false
	}
	r := extendToFrame(timeline.NewRange(ts.blockAt, ts.blockAt), c.sampleRate, len(ts.samples))
	return block.NewSamples(r, c.sampleRate, append([]value.Value(nil), ts.samples...)), true
}

// Commit merges every finished+current block into its track via
// block.Sequence.AddRange (overwrite policy, §4.C), shifted to the
// recorder's absolute start time, and emits a SourceClip provenance
// record for the batch.
func (c *Core) Commit(ctx context.Context, origin string) (*SourceClip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ts := range c.tracks {
		var toMerge []block.Block
		toMerge = append(toMerge, ts.finished...)
		if ts.state == Recording && len(ts.samples) > 0 {
			ty, err := c.registry.Lookup(ts.track.ValueKind)
			if err != nil {
				continue
			}
			r := extendToFrame(timeline.NewRange(ts.blockAt, ts.blockAt), c.sampleRate, len(ts.samples))
			toMerge = append(toMerge, block.NewSamplesOrConstant(r, c.sampleRate, append([]value.Value(nil), ts.samples...), ty))
		}
		if len(toMerge) == 0 {
			continue
		}
		shifted := make([]block.Block, len(toMerge))
		for i, b := range toMerge {
			shifted[i] = b.Shift(c.startTime)
		}
		ts.track.Blocks.AddRange(shifted)
	}

	sc := &SourceClip{ID: uuid.NewString(), Origin: origin, StartedAt: time.Now()}
	if c.store != nil {
		if err := c.store.SourceClip().Add(ctx, sc); err != nil {
			return nil, moverr.ErrDecodeError.Withf("persisting source clip: %s", err.Error())
		}
	}
	return sc, nil
}

// MutedTrackIDs returns the set of track IDs currently armed or recording,
// which the Player must present as muted so live playback doesn't read
// back values the recorder is in the middle of writing.
func (c *Core) MutedTrackIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []string
	for id, ts := range c.tracks {
		if ts.state == Armed || ts.state == Recording {
			ids = append(ids, id)
		}
	}
	return ids
}
