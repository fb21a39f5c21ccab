package api

import (
	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/value"
)

// blockDTO is the display/preview wire shape of a block.Block: a looser
// cousin of project's persisted blockDoc, used where blocks are rendered
// for preview (recorder in-progress captures) rather than round-tripped.
type blockDTO struct {
	Kind       string        `json:"kind"`
	StartTicks int64         `json:"startTicks"`
	EndTicks   int64         `json:"endTicks"`
	SampleRate int           `json:"sampleRate,omitempty"`
	Samples    []value.Value `json:"samples,omitempty"`
	Value      *value.Value  `json:"value,omitempty"`
}

func toBlockDTO(b block.Block) blockDTO {
	d := blockDTO{StartTicks: int64(b.Range.Start), EndTicks: int64(b.Range.End)}
	switch b.Kind {
	case block.KindConstant:
		d.Kind = "Constant"
		v := b.Constant
		d.Value = &v
	case block.KindSamples:
		d.Kind = "Samples"
		d.SampleRate = b.SampleRate
		d.Samples = b.Samples
	case block.KindAction:
		d.Kind = "Action"
		v := b.Action
		d.Value = &v
	}
	return d
}
