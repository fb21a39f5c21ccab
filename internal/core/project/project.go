// Package project implements the persisted clip/project document (spec.md
// §6.1): a tagged, bit-exact-round-trippable serialization of a track tree,
// plus the authored keyframe curves any Prop track was built from.
package project

import (
	"encoding/json"
	"sort"

	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/keyframe"
	"github.com/gowvp/moviemaker/internal/core/moverr"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/track"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// Project is the in-memory root the editor mutates: a track tree, the
// sample rate and default interpolation new keyframes are authored with,
// and the authored curve (when the track was built from keyframes rather
// than directly-authored blocks) per track ID.
type Project struct {
	Tree                 *track.Tree
	SampleRate           int
	DefaultInterpolation keyframe.Interpolation
	Curves               map[string]keyframe.Curve
}

// New builds an empty Project at sampleRate with an empty track tree.
func New(sampleRate int, defaultInterp keyframe.Interpolation) *Project {
	return &Project{
		Tree:                 track.NewTree(),
		SampleRate:           sampleRate,
		DefaultInterpolation: defaultInterp,
		Curves:               make(map[string]keyframe.Curve),
	}
}

// document is the §6.1 wire schema.
type document struct {
	SampleRate           int        `json:"sampleRate"`
	DefaultInterpolation string     `json:"defaultInterpolation"`
	Tracks               []trackDoc `json:"tracks"`
}

type trackDoc struct {
	ID         string        `json:"id"`
	ParentID   string        `json:"parentId,omitempty"`
	Kind       string        `json:"kind"`
	Name       string        `json:"name"`
	TargetType value.Kind    `json:"targetType,omitempty"`
	Locked     bool          `json:"locked"`
	IsBone     bool          `json:"isBone,omitempty"`
	Blocks     []blockDoc    `json:"blocks,omitempty"`
	Keyframes  []keyframeDoc `json:"keyframes,omitempty"`
}

type blockDoc struct {
	Kind    string   `json:"kind"`
	Range   rangeDoc `json:"range"`
	Payload payload  `json:"payload"`
}

type rangeDoc struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

type payload struct {
	SampleRate int           `json:"sampleRate,omitempty"`
	Values     []value.Value `json:"values,omitempty"`
	Value      *value.Value  `json:"value,omitempty"`
}

type keyframeDoc struct {
	Time   int64       `json:"time"`
	Value  value.Value `json:"value"`
	Interp string      `json:"interp"`
}

func interpolationName(i keyframe.Interpolation) string {
	switch i {
	case keyframe.Step:
		return "Step"
	case keyframe.Linear:
		return "Linear"
	case keyframe.Cubic:
		return "Cubic"
	default:
		return "Linear"
	}
}

func parseInterpolation(s string) (keyframe.Interpolation, error) {
	switch s {
	case "Step":
		return keyframe.Step, nil
	case "Linear":
		return keyframe.Linear, nil
	case "Cubic":
		return keyframe.Cubic, nil
	default:
		return 0, moverr.ErrDecodeError.Withf("unknown interpolation[%s]", s)
	}
}

func trackKindName(k track.Kind) string {
	if k == track.KindRef {
		return "Ref"
	}
	return "Prop"
}

func parseTrackKind(s string) (track.Kind, error) {
	switch s {
	case "Ref":
		return track.KindRef, nil
	case "Prop":
		return track.KindProp, nil
	default:
		return 0, moverr.ErrDecodeError.Withf("unknown track kind[%s]", s)
	}
}

func toBlockDoc(b block.Block) blockDoc {
	d := blockDoc{Range: rangeDoc{Start: int64(b.Range.Start), End: int64(b.Range.End)}}
	switch b.Kind {
	case block.KindConstant:
		d.Kind = "Constant"
		v := b.Constant
		d.Payload.Value = &v
	case block.KindSamples:
		d.Kind = "Samples"
		d.Payload.SampleRate = b.SampleRate
		d.Payload.Values = append([]value.Value(nil), b.Samples...)
	case block.KindAction:
		d.Kind = "Action"
		v := b.Action
		d.Payload.Value = &v
	}
	return d
}

func fromBlockDoc(d blockDoc) (block.Block, error) {
	r := timeline.NewRange(timeline.T(d.Range.Start), timeline.T(d.Range.End))
	switch d.Kind {
	case "Constant":
		if d.Payload.Value == nil {
			return block.Block{}, moverr.ErrDecodeError.Withf("Constant block missing payload.value")
		}
		return block.NewConstant(r, *d.Payload.Value), nil
	case "Samples":
		return block.NewSamples(r, d.Payload.SampleRate, d.Payload.Values), nil
	case "Action":
		if d.Payload.Value == nil {
			return block.Block{}, moverr.ErrDecodeError.Withf("Action block missing payload.value")
		}
		return block.NewAction(r, *d.Payload.Value), nil
	default:
		return block.Block{}, moverr.ErrDecodeError.Withf("unknown block kind[%s]", d.Kind)
	}
}

// Encode serializes p to its §6.1 JSON document. Tracks authored from a
// keyframe curve (present in p.Curves) emit their curve's keyframes
// verbatim rather than recompiled blocks, so re-decoding reproduces the
// identical curve rather than a lossy block approximation of it.
func (p *Project) Encode() ([]byte, error) {
	doc := document{
		SampleRate:           p.SampleRate,
		DefaultInterpolation: interpolationName(p.DefaultInterpolation),
	}

	p.Tree.IterDepthFirst(func(tr *track.Track) bool {
		td := trackDoc{
			ID:     tr.ID,
			Kind:   trackKindName(tr.Kind),
			Name:   tr.Name,
			Locked: tr.Locked,
			IsBone: tr.IsBone,
		}
		if parent := tr.Parent(); parent != nil {
			td.ParentID = parent.ID
		}
		if tr.Kind == track.KindProp {
			td.TargetType = tr.ValueKind
			if curve, ok := p.Curves[tr.ID]; ok {
				td.Keyframes = make([]keyframeDoc, len(curve.Points))
				for i, pt := range curve.Points {
					td.Keyframes[i] = keyframeDoc{
						Time:   int64(pt.Time),
						Value:  pt.Value,
						Interp: interpolationName(pt.Interpolation),
					}
				}
			} else {
				blocks := tr.Blocks.Blocks()
				td.Blocks = make([]blockDoc, len(blocks))
				for i, b := range blocks {
					td.Blocks[i] = toBlockDoc(b)
				}
			}
		}
		doc.Tracks = append(doc.Tracks, td)
		return true
	})

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, moverr.ErrDecodeError.Withf("encode project: %s", err.Error())
	}
	return data, nil
}

// Decode parses a §6.1 document. registry resolves each Prop track's value
// type so authored keyframes can be compiled into runtime blocks; it must
// hold every value.Kind the document references. The document's tracks must
// list each parent before its children (the shape Encode always produces).
func Decode(data []byte, registry *value.Registry) (*Project, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, moverr.ErrDecodeError.Withf("decode project: %s", err.Error())
	}
	interp, err := parseInterpolation(doc.DefaultInterpolation)
	if err != nil {
		return nil, err
	}

	p := &Project{
		Tree:                 track.NewTree(),
		SampleRate:           doc.SampleRate,
		DefaultInterpolation: interp,
		Curves:               make(map[string]keyframe.Curve),
	}

	for _, td := range doc.Tracks {
		kind, err := parseTrackKind(td.Kind)
		if err != nil {
			return nil, err
		}

		var tr *track.Track
		if kind == track.KindRef {
			tr = track.NewRefTrack(td.Name)
		} else {
			tr = track.NewPropTrack(td.Name, td.TargetType)
			tr.IsBone = td.IsBone
		}
		tr.ID = td.ID
		tr.Locked = td.Locked

		if kind == track.KindProp {
			ty, err := registry.Lookup(td.TargetType)
			if err != nil {
				return nil, err
			}
			if len(td.Keyframes) > 0 {
				curve := keyframe.Curve{Points: make([]keyframe.Point, len(td.Keyframes))}
				for i, kd := range td.Keyframes {
					interp, err := parseInterpolation(kd.Interp)
					if err != nil {
						return nil, err
					}
					curve.Points[i] = keyframe.Point{
						Time:          timeline.T(kd.Time),
						Value:         kd.Value,
						Interpolation: interp,
					}
				}
				sort.SliceStable(curve.Points, func(i, j int) bool { return curve.Points[i].Time < curve.Points[j].Time })
				p.Curves[tr.ID] = curve
				tr.Blocks = curve.Compile(p.SampleRate, ty)
			} else {
				blocks := make([]block.Block, len(td.Blocks))
				for i, bd := range td.Blocks {
					b, err := fromBlockDoc(bd)
					if err != nil {
						return nil, err
					}
					blocks[i] = b
				}
				tr.Blocks = block.NewSequence(blocks...)
			}
		}

		if td.ParentID == "" {
			if err := p.Tree.AddRoot(tr); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.Tree.AddChild(td.ParentID, tr); err != nil {
			return nil, err
		}
	}

	return p, nil
}
