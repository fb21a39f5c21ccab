package edit

import (
	"encoding/json"

	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/moverr"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// Document is the clipboard's UTF-8 wire shape (spec.md §6.2): an anchor
// time plus one group per copied track. The engine's runtime storage is
// compiled blocks rather than authored keyframe curves (§4.C compiles
// curves to blocks lazily), so each group's "keyframes" array in practice
// holds the selection's compiled block payloads.
type Document struct {
	Time   int64   `json:"time"`
	Groups []Group `json:"keyframes"`
}

// Group is one copied track's payload.
type Group struct {
	GUID       string       `json:"guid"`
	TargetType value.Kind   `json:"targetType"`
	Blocks     []WireBlock  `json:"keyframes"`
}

// WireBlock is a block.Block rendered to its JSON wire form.
type WireBlock struct {
	Kind       string        `json:"kind"`
	Start      int64         `json:"start"`
	End        int64         `json:"end"`
	SampleRate int           `json:"sampleRate,omitempty"`
	Samples    []value.Value `json:"values,omitempty"`
	Constant   *value.Value  `json:"constant,omitempty"`
	Action     *value.Value  `json:"action,omitempty"`
}

func blockKindName(k block.Kind) string {
	switch k {
	case block.KindConstant:
		return "Constant"
	case block.KindSamples:
		return "Samples"
	case block.KindAction:
		return "Action"
	default:
		return ""
	}
}

func toWireBlock(b block.Block) WireBlock {
	w := WireBlock{
		Kind:       blockKindName(b.Kind),
		Start:      int64(b.Range.Start),
		End:        int64(b.Range.End),
		SampleRate: b.SampleRate,
	}
	switch b.Kind {
	case block.KindConstant:
		v := b.Constant
		w.Constant = &v
	case block.KindSamples:
		w.Samples = append([]value.Value(nil), b.Samples...)
	case block.KindAction:
		v := b.Action
		w.Action = &v
	}
	return w
}

func fromWireBlock(w WireBlock) (block.Block, error) {
	r := timeline.NewRange(timeline.T(w.Start), timeline.T(w.End))
	switch w.Kind {
	case "Constant":
		if w.Constant == nil {
			return block.Block{}, moverr.ErrDecodeError.Withf("Constant block missing value")
		}
		return block.NewConstant(r, *w.Constant), nil
	case "Samples":
		return block.NewSamples(r, w.SampleRate, w.Samples), nil
	case "Action":
		if w.Action == nil {
			return block.Block{}, moverr.ErrDecodeError.Withf("Action block missing value")
		}
		return block.NewAction(r, *w.Action), nil
	default:
		return block.Block{}, moverr.ErrDecodeError.Withf("unknown block kind[%s]", w.Kind)
	}
}

// EncodeClipboard serializes a copied selection to the clipboard's UTF-8
// JSON document.
func EncodeClipboard(anchorTime timeline.T, groups map[string]Group) ([]byte, error) {
	doc := Document{Time: int64(anchorTime)}
	for _, g := range groups {
		doc.Groups = append(doc.Groups, g)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, moverr.ErrDecodeError.Withf("encode clipboard: %s", err.Error())
	}
	return b, nil
}

// DecodeClipboard parses a clipboard document.
func DecodeClipboard(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, moverr.ErrDecodeError.Withf("decode clipboard: %s", err.Error())
	}
	return &doc, nil
}
