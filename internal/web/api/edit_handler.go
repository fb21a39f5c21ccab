package api

import (
	"encoding/base64"

	"github.com/gin-gonic/gin"
	"github.com/gowvp/moviemaker/internal/core/edit"
	"github.com/gowvp/moviemaker/internal/core/timeline"
	"github.com/gowvp/moviemaker/internal/web/webkit"
)

// EditAPI serves copy/paste/delete/move/undo over the session's Editor.
type EditAPI struct {
	uc *Usecase
}

func NewEditAPI() EditAPI {
	return EditAPI{}
}

func RegisterEdit(r gin.IRouter, api EditAPI, mid ...gin.HandlerFunc) {
	group := r.Group("/edit", mid...)
	group.POST("/copy", webkit.WrapH(api.copy))
	group.POST("/cut", webkit.WrapH(api.cut))
	group.POST("/paste", webkit.WrapH(api.paste))
	group.POST("/delete", webkit.WrapH(api.delete))
	group.POST("/move", webkit.WrapH(api.move))
	group.POST("/undo", webkit.WrapH(api.undo))
}

type selectionInput struct {
	TrackIDs  []string `json:"trackIds" binding:"required"`
	StartTick int64    `json:"startTick"`
	EndTick   int64    `json:"endTick" binding:"required"`
}

func (in selectionInput) toSelection() edit.Selection {
	return edit.Selection{
		TrackIDs: in.TrackIDs,
		Range:    timeline.NewRange(timeline.T(in.StartTick), timeline.T(in.EndTick)),
	}
}

type clipboardOutput struct {
	Data string `json:"data"`
}

func (a EditAPI) copy(_ *gin.Context, in *selectionInput) (*clipboardOutput, error) {
	data, err := a.uc.Session.Editor.Copy(in.toSelection())
	if err != nil {
		return nil, err
	}
	return &clipboardOutput{Data: base64.StdEncoding.EncodeToString(data)}, nil
}

func (a EditAPI) cut(_ *gin.Context, in *selectionInput) (*clipboardOutput, error) {
	data, err := a.uc.Session.Editor.Cut(in.toSelection())
	if err != nil {
		return nil, err
	}
	return &clipboardOutput{Data: base64.StdEncoding.EncodeToString(data)}, nil
}

type pasteInput struct {
	Data             string `json:"data" binding:"required"`
	PlayheadTimeTick int64  `json:"playheadTimeTick"`
	TargetTrackID    string `json:"targetTrackId"`
}

func (a EditAPI) paste(_ *gin.Context, in *pasteInput) (gin.H, error) {
	data, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return nil, webkit.ErrInvalidBody.SetMsg(err.Error())
	}
	if err := a.uc.Session.Editor.Paste(data, timeline.T(in.PlayheadTimeTick), in.TargetTrackID); err != nil {
		return nil, err
	}
	return gin.H{"pasted": true}, nil
}

func (a EditAPI) delete(_ *gin.Context, in *selectionInput) (gin.H, error) {
	if err := a.uc.Session.Editor.Delete(in.toSelection()); err != nil {
		return nil, err
	}
	return gin.H{"deleted": true}, nil
}

type moveInput struct {
	selectionInput
	DeltaTick int64 `json:"deltaTick"`
}

func (a EditAPI) move(_ *gin.Context, in *moveInput) (gin.H, error) {
	if err := a.uc.Session.Editor.Move(in.selectionInput.toSelection(), timeline.T(in.DeltaTick)); err != nil {
		return nil, err
	}
	return gin.H{"moved": true}, nil
}

func (a EditAPI) undo(_ *gin.Context, _ *struct{}) (gin.H, error) {
	label := a.uc.Session.Editor.Undo()
	return gin.H{"undone": label}, nil
}
