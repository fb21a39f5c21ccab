package modification

import (
	"context"

	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/moverr"
	"github.com/gowvp/moviemaker/internal/core/track"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// SkeletonModel is the shadow scene-model AnimParamsToBones drives: fed
// parameter values at each frame, it advances its animation graph by one
// sample period and reports each bone's resulting parent-space transform.
// The core engine has no scene integration of its own; a caller (the
// editor's scene adapter) supplies the concrete implementation per object.
type SkeletonModel interface {
	BoneNames() []string
	// BoneParent returns bone's parent bone name, or "" if bone is a root.
	BoneParent(bone string) string
	// Evaluate feeds params, advances the animation graph by dt seconds,
	// and returns every bone's parent-space transform after the advance.
	Evaluate(params map[string]float64, dt float64) map[string]value.Transform
}

// AnimParamsToBones bakes animation-graph parameter tracks into per-bone
// Transform tracks by driving a SkeletonModel frame by frame.
type AnimParamsToBones struct {
	Model func(obj *track.Track) SkeletonModel
}

func (m AnimParamsToBones) CanStart(list TrackListView, sel TimeSelection) bool {
	if m.Model == nil {
		return false
	}
	for _, obj := range list.Objects {
		accessor := findChild(obj, "SkinnedModel")
		if accessor == nil {
			continue
		}
		if findChild(accessor, "Bones") == nil {
			continue
		}
		if model := m.Model(obj); model != nil && len(model.BoneNames()) > 0 {
			return true
		}
	}
	return false
}

func (m AnimParamsToBones) Start(ctx context.Context, list TrackListView, sel TimeSelection, registry *value.Registry) ([]CompiledPropertyTrack, error) {
	floatTy, err := registry.Lookup(value.KindFloat)
	if err != nil {
		return nil, err
	}
	transformTy, err := registry.Lookup(value.KindTransform)
	if err != nil {
		return nil, err
	}

	return runPerObjectMulti(ctx, list.Objects, func(ctx context.Context, obj *track.Track) ([]CompiledPropertyTrack, error) {
		accessor := findChild(obj, "SkinnedModel")
		if accessor == nil {
			return nil, nil
		}
		bonesAccessor := findChild(accessor, "Bones")
		if bonesAccessor == nil {
			return nil, nil
		}
		model := m.Model(obj)
		if model == nil {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		order, err := toposortBones(model)
		if err != nil {
			return nil, err
		}

		paramTracks := make(map[string]*track.Track)
		for _, c := range accessor.Children() {
			if c.Kind == track.KindProp && c.ValueKind == value.KindFloat {
				paramTracks[c.Name] = c
			}
		}
		params := make(map[string][]value.Value, len(paramTracks))
		for name, tr := range paramTracks {
			params[name] = sampleFrames(tr, sel, floatTy)
		}

		n := sel.Range.FrameCount(sel.SampleRate)
		dt := 1.0 / float64(sel.SampleRate)
		boneSamples := make(map[string][]value.Value, len(order))
		for _, bone := range order {
			boneSamples[bone] = make([]value.Value, n+1)
		}

		for i := int64(0); i <= n; i++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			frameParams := make(map[string]float64, len(params))
			for name, samples := range params {
				frameParams[name] = samples[i].Float
			}
			poses := model.Evaluate(frameParams, dt)
			for _, bone := range order {
				t, ok := poses[bone]
				if !ok {
					t = value.IdentityTransform
				}
				boneSamples[bone][i] = value.Value{Kind: value.KindTransform, Transform: t}
			}
		}

		out := make([]CompiledPropertyTrack, 0, len(order))
		for _, bone := range order {
			b := compileSamplesOrConstant(sel.Range, sel.SampleRate, boneSamples[bone], transformTy)
			out = append(out, CompiledPropertyTrack{Object: bonesAccessor, Property: bone, Blocks: []block.Block{b}})
		}
		return out, nil
	})
}

// toposortBones orders model's bones parents-before-children via Kahn's
// algorithm, per spec.md §9's Open Question resolution: baking must never
// assume bone declaration order already satisfies the parent-before-child
// invariant.
func toposortBones(model SkeletonModel) ([]string, error) {
	names := model.BoneNames()
	children := make(map[string][]string, len(names))
	indegree := make(map[string]int, len(names))
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
		indegree[n] = 0
	}
	for _, n := range names {
		p := model.BoneParent(n)
		if p == "" || !known[p] {
			continue
		}
		children[p] = append(children[p], n)
		indegree[n]++
	}

	var queue []string
	for _, n := range names {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	order := make([]string, 0, len(names))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, c := range children[n] {
			indegree[c]--
			if indegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	if len(order) != len(names) {
		return nil, moverr.ErrCyclicParent.Withf("bone hierarchy has a parent cycle")
	}
	return order, nil
}
