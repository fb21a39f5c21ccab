package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gowvp/moviemaker/internal/core/player"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/web/webkit"
)

// PlayerAPI serves the session's transport controls: play/pause/seek.
type PlayerAPI struct {
	uc *Usecase
}

func NewPlayerAPI() PlayerAPI {
	return PlayerAPI{}
}

func RegisterPlayer(r gin.IRouter, api PlayerAPI, mid ...gin.HandlerFunc) {
	group := r.Group("/player", mid...)
	group.GET("", webkit.WrapH(api.getState))
	group.POST("/play", webkit.WrapH(api.play))
	group.POST("/pause", webkit.WrapH(api.pause))
	group.POST("/seek", webkit.WrapH(api.seek))
	group.POST("/advance", webkit.WrapH(api.advance))
}

type playerStateOutput struct {
	TimeTicks int64  `json:"timeTicks"`
	Mode      string `json:"mode"`
}

func modeName(m player.Mode) string {
	switch m {
	case player.Playing:
		return "Playing"
	case player.Scrubbing:
		return "Scrubbing"
	default:
		return "Paused"
	}
}

func (a PlayerAPI) getState(_ *gin.Context, _ *struct{}) (*playerStateOutput, error) {
	p := a.uc.Session.Player
	return &playerStateOutput{TimeTicks: int64(p.Time()), Mode: modeName(p.Mode())}, nil
}

func (a PlayerAPI) play(_ *gin.Context, _ *struct{}) (*playerStateOutput, error) {
	a.uc.Session.Player.Play()
	return a.getState(nil, nil)
}

func (a PlayerAPI) pause(_ *gin.Context, _ *struct{}) (*playerStateOutput, error) {
	a.uc.Session.Player.Pause()
	return a.getState(nil, nil)
}

type seekInput struct {
	TimeTicks int64 `json:"timeTicks" binding:"required"`
}

func (a PlayerAPI) seek(_ *gin.Context, in *seekInput) (*playerStateOutput, error) {
	if err := a.uc.Session.Player.SetTime(timeline.T(in.TimeTicks)); err != nil {
		return nil, err
	}
	return a.getState(nil, nil)
}

type advanceInput struct {
	DeltaTicks int64 `json:"deltaTicks" binding:"required"`
}

func (a PlayerAPI) advance(_ *gin.Context, in *advanceInput) (*playerStateOutput, error) {
	if err := a.uc.Session.Player.Advance(timeline.T(in.DeltaTicks)); err != nil {
		return nil, err
	}
	return a.getState(nil, nil)
}
