// Package modification implements read-only analyses that derive new
// compiled tracks from a selection, per spec.md §3/§4.I.
package modification

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/track"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// TrackListView is the read-only view a Modification inspects: the set of
// object root tracks under consideration. Child property tracks are found
// by walking each object's children.
type TrackListView struct {
	Objects []*track.Track
}

// TimeSelection names the time range and sample rate a Modification
// samples at.
type TimeSelection struct {
	Range      timeline.Range
	SampleRate int
}

// CompiledPropertyTrack is one emitted output: a target object, a named
// property, and the compiled block sequence to apply as an overlay.
type CompiledPropertyTrack struct {
	Object   *track.Track
	Property string
	Blocks   []block.Block
}

// Modification is a read-only analysis gated by CanStart.
type Modification interface {
	CanStart(list TrackListView, sel TimeSelection) bool
	// Start runs the analysis to completion (or until ctx is cancelled)
	// and returns the emitted overlay tracks.
	Start(ctx context.Context, list TrackListView, sel TimeSelection, registry *value.Registry) ([]CompiledPropertyTrack, error)
}

// runPerObject runs build for every object on its own goroutine, joined by
// an errgroup with no concurrency limit, cancel-aware per spec.md §5's
// cancel() contract:
// a cancelled ctx stops emission and discards partial results for objects
// not yet completed.
func runPerObject(ctx context.Context, objects []*track.Track, build func(context.Context, *track.Track) (*CompiledPropertyTrack, error)) ([]CompiledPropertyTrack, error) {
	results := make([]*CompiledPropertyTrack, len(objects))
	g, gctx := errgroup.WithContext(ctx)
	for i, obj := range objects {
		i, obj := i, obj
		g.Go(func() error {
			out, err := build(gctx, obj)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make([]CompiledPropertyTrack, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// runPerObjectMulti is runPerObject for builders that emit zero or more
// outputs per object (e.g. one modification fanning out several named
// parameter tracks under a single accessor).
func runPerObjectMulti(ctx context.Context, objects []*track.Track, build func(context.Context, *track.Track) ([]CompiledPropertyTrack, error)) ([]CompiledPropertyTrack, error) {
	results := make([][]CompiledPropertyTrack, len(objects))
	g, gctx := errgroup.WithContext(ctx)
	for i, obj := range objects {
		i, obj := i, obj
		g.Go(func() error {
			out, err := build(gctx, obj)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []CompiledPropertyTrack
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// findChildProp returns obj's child Prop track named name, or nil.
func findChildProp(obj *track.Track, name string) *track.Track {
	for _, c := range obj.Children() {
		if c.Kind == track.KindProp && c.Name == name {
			return c
		}
	}
	return nil
}

// findChild returns obj's child track named name regardless of Kind, or
// nil. Used to locate accessor sub-trees (e.g. a skinned-model component)
// rather than leaf properties.
func findChild(obj *track.Track, name string) *track.Track {
	for _, c := range obj.Children() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// sampleFrames returns the property's value at every frame boundary of
// sel.Range, inclusive of both ends, using registry's Type for ty.Kind.
func sampleFrames(prop *track.Track, sel TimeSelection, ty value.Type) []value.Value {
	period := timeline.FramePeriod(sel.SampleRate)
	n := sel.Range.FrameCount(sel.SampleRate)
	out := make([]value.Value, n+1)
	for i := int64(0); i <= n; i++ {
		t := sel.Range.Start.Add(timeline.T(i) * period)
		out[i] = prop.Blocks.GetValueAt(t, ty)
	}
	return out
}

// compileSamplesOrConstant emits a Constant block if every sample is
// almost_equal to the first, else a Samples block, per spec.md §4.I step 4.
func compileSamplesOrConstant(r timeline.Range, rate int, samples []value.Value, ty value.Type) block.Block {
	return block.NewSamplesOrConstant(r, rate, samples, ty)
}
