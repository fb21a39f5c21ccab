package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gowvp/moviemaker/internal/core/recorder"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/web/webkit"
)

// RecorderAPI serves live-track capture: arming, starting, stopping, and
// committing a recording pass over the session's Binder.
type RecorderAPI struct {
	uc *Usecase
}

func NewRecorderAPI() RecorderAPI {
	return RecorderAPI{}
}

func RegisterRecorder(r gin.IRouter, api RecorderAPI, mid ...gin.HandlerFunc) {
	group := r.Group("/recorder", mid...)
	group.POST("/arm", webkit.WrapH(api.arm))
	group.POST("/start", webkit.WrapH(api.start))
	group.POST("/stop", webkit.WrapH(api.stop))
	group.POST("/commit", webkit.WrapH(api.commit))
	group.GET("/:id/preview", webkit.WrapH(api.preview))
}

type armInput struct {
	TrackID string `json:"trackId" binding:"required"`
}

func (a RecorderAPI) arm(_ *gin.Context, in *armInput) (gin.H, error) {
	sess := a.uc.Session
	sess.mu.RLock()
	tr, err := sess.Project.Tree.Find(in.TrackID)
	sess.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if err := sess.Recorder.Arm(tr); err != nil {
		return nil, err
	}
	sess.Player.SetMuted(tr.ID, true)
	return gin.H{"trackId": tr.ID}, nil
}

type startInput struct {
	StartTimeTicks int64 `json:"startTimeTicks"`
}

func (a RecorderAPI) start(_ *gin.Context, in *startInput) (gin.H, error) {
	a.uc.Session.Recorder.Start(timeline.T(in.StartTimeTicks))
	return gin.H{"started": true}, nil
}

func (a RecorderAPI) stop(_ *gin.Context, _ *struct{}) (gin.H, error) {
	sess := a.uc.Session
	sess.Recorder.Stop()
	for _, id := range sess.Recorder.MutedTrackIDs() {
		sess.Player.SetMuted(id, false)
	}
	return gin.H{"stopped": true}, nil
}

type commitInput struct {
	Origin string `json:"origin" binding:"required"`
}

func (a RecorderAPI) commit(c *gin.Context, in *commitInput) (*recorder.SourceClip, error) {
	return a.uc.Session.Recorder.Commit(c.Request.Context(), in.Origin)
}

type previewInput struct {
	ID string `uri:"id"`
}

type previewOutput struct {
	Finished []blockDTO `json:"finished"`
	Current  *blockDTO  `json:"current,omitempty"`
}

func (a RecorderAPI) preview(_ *gin.Context, in *previewInput) (*previewOutput, error) {
	sess := a.uc.Session
	out := &previewOutput{}
	for _, b := range sess.Recorder.FinishedBlocks(in.ID) {
		out.Finished = append(out.Finished, toBlockDTO(b))
	}
	if b, ok := sess.Recorder.CurrentBlock(in.ID); ok {
		d := toBlockDTO(b)
		out.Current = &d
	}
	return out, nil
}
