package api

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/gowvp/moviemaker/internal/core/project"
	"github.com/gowvp/moviemaker/internal/core/recorder"
	"github.com/gowvp/moviemaker/internal/web/webkit"
)

// ProjectAPI serves whole-document save/load over the session's Project.
type ProjectAPI struct {
	uc    *Usecase
	store recorder.Storer
}

func NewProjectAPI(store recorder.Storer) ProjectAPI {
	return ProjectAPI{store: store}
}

func RegisterProject(r gin.IRouter, api ProjectAPI, mid ...gin.HandlerFunc) {
	group := r.Group("/project", mid...)
	group.GET("", webkit.WrapH(api.get))
	group.POST("/save", webkit.WrapH(api.save))
	group.POST("/load", webkit.WrapH(api.load))
}

func (a ProjectAPI) get(_ *gin.Context, _ *struct{}) (gin.H, error) {
	sess := a.uc.Session
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	data, err := sess.Project.Encode()
	if err != nil {
		return nil, err
	}
	return gin.H{"document": string(data)}, nil
}

type saveInput struct {
	Path string `json:"path" binding:"required"`
}

func (a ProjectAPI) save(_ *gin.Context, in *saveInput) (gin.H, error) {
	sess := a.uc.Session
	sess.mu.RLock()
	data, err := sess.Project.Encode()
	sess.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(in.Path, data, 0o644); err != nil {
		return nil, webkit.ErrServer.SetMsg(err.Error())
	}
	return gin.H{"path": in.Path}, nil
}

type loadInput struct {
	Path string `json:"path" binding:"required"`
}

func (a ProjectAPI) load(_ *gin.Context, in *loadInput) (gin.H, error) {
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, webkit.ErrServer.SetMsg(err.Error())
	}
	sess := a.uc.Session
	proj, err := project.Decode(data, sess.Registry)
	if err != nil {
		return nil, err
	}
	sess.ReplaceProject(proj, a.store)
	return gin.H{"path": in.Path}, nil
}
