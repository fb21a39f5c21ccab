package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gowvp/moviemaker/internal/core/block"
	"github.com/gowvp/moviemaker/internal/core/modification"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/core/track"
	"github.com/gowvp/moviemaker/internal/core/value"
	"github.com/gowvp/moviemaker/internal/web/webkit"
)

// ModificationAPI applies the engine's canned analyses (RotateWithMotion,
// MotionToAnimParameters, AnimParamsToBones) over a selection and merges
// the resulting overlay tracks into the session's project.
type ModificationAPI struct {
	uc *Usecase
}

func NewModificationAPI() ModificationAPI {
	return ModificationAPI{}
}

func RegisterModification(r gin.IRouter, api ModificationAPI, mid ...gin.HandlerFunc) {
	group := r.Group("/modifications", mid...)
	group.GET("", webkit.WrapH(api.list))
	group.POST("/:name/apply", webkit.WrapH(api.apply))
}

var modificationNames = []string{"RotateWithMotion", "MotionToAnimParameters", "AnimParamsToBones"}

func (a ModificationAPI) list(_ *gin.Context, _ *struct{}) ([]string, error) {
	return modificationNames, nil
}

func lookupModification(name string) modification.Modification {
	switch name {
	case "RotateWithMotion":
		return modification.RotateWithMotion{}
	case "MotionToAnimParameters":
		return modification.MotionToAnimParameters{}
	case "AnimParamsToBones":
		return modification.AnimParamsToBones{Model: identitySkeletonModel}
	default:
		return nil
	}
}

// identitySkeletonModel stands in for the host scene's animation graph
// when none is attached: it has no bones, so AnimParamsToBones.CanStart
// always reports false for it. A real editor shell replaces this with an
// adapter over its actual skinned-model scene objects.
func identitySkeletonModel(*track.Track) modification.SkeletonModel {
	return noBonesModel{}
}

type noBonesModel struct{}

func (noBonesModel) BoneNames() []string          { return nil }
func (noBonesModel) BoneParent(string) string     { return "" }
func (noBonesModel) Evaluate(map[string]float64, float64) map[string]value.Transform {
	return nil
}

type applyInput struct {
	Name       string   `uri:"name"`
	ObjectIDs  []string `json:"objectIds" binding:"required"`
	StartTick  int64    `json:"startTick"`
	EndTick    int64    `json:"endTick" binding:"required"`
	SampleRate int      `json:"sampleRate" binding:"required"`
}

func (a ModificationAPI) apply(c *gin.Context, in *applyInput) (gin.H, error) {
	mod := lookupModification(in.Name)
	if mod == nil {
		return nil, webkit.ErrNotFound.SetMsg("unknown modification[" + in.Name + "]")
	}

	sess := a.uc.Session
	sess.mu.Lock()
	defer sess.mu.Unlock()

	objects := make([]*track.Track, len(in.ObjectIDs))
	for i, id := range in.ObjectIDs {
		tr, err := sess.Project.Tree.Find(id)
		if err != nil {
			return nil, err
		}
		objects[i] = tr
	}

	list := modification.TrackListView{Objects: objects}
	sel := modification.TimeSelection{
		Range:      timeline.NewRange(timeline.T(in.StartTick), timeline.T(in.EndTick)),
		SampleRate: in.SampleRate,
	}
	if !mod.CanStart(list, sel) {
		return nil, webkit.ErrInvalidBody.SetMsg("modification cannot start for the given selection")
	}

	outputs, err := mod.Start(c.Request.Context(), list, sel, sess.Registry)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(outputs))
	for _, out := range outputs {
		prop, err := sess.Project.Tree.FindChild(out.Object.ID, out.Property)
		if err != nil {
			prop = track.NewPropTrack(out.Property, inferValueKind(out.Blocks))
			if err := sess.Project.Tree.AddChild(out.Object.ID, prop); err != nil {
				return nil, err
			}
		}
		prop.Blocks.AddRange(out.Blocks)
		applied = append(applied, prop.ID)
	}
	return gin.H{"appliedTrackIds": applied}, nil
}

func inferValueKind(blocks []block.Block) value.Kind {
	if len(blocks) == 0 {
		return value.KindFloat
	}
	switch blocks[0].Kind {
	case block.KindConstant:
		return blocks[0].Constant.Kind
	case block.KindSamples:
		if len(blocks[0].Samples) > 0 {
			return blocks[0].Samples[0].Kind
		}
	case block.KindAction:
		return blocks[0].Action.Kind
	}
	return value.KindFloat
}
