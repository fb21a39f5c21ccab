package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"

	"github.com/gowvp/moviemaker/internal/core/track"
	"github.com/gowvp/moviemaker/internal/core/value"
	"github.com/gowvp/moviemaker/internal/web/webkit"
)

// TrackAPI serves the track tree CRUD surface over the session's project.
type TrackAPI struct {
	uc *Usecase
}

func NewTrackAPI() TrackAPI {
	return TrackAPI{}
}

func RegisterTrack(r gin.IRouter, api TrackAPI, mid ...gin.HandlerFunc) {
	group := r.Group("/tracks", mid...)
	group.GET("", webkit.WrapH(api.listTracks))
	group.POST("", webkit.WrapH(api.addTrack))
	group.GET("/:id", webkit.WrapH(api.getTrack))
	group.DELETE("/:id", webkit.WrapH(api.deleteTrack))
	group.PATCH("/:id/lock", webkit.WrapH(api.setLocked))
}

// trackDTO is the wire shape of one tree node, rendered breadth-agnostic:
// Children nests the full subtree so a single GET reproduces the tree.
type trackDTO struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
	ValueKind value.Kind `json:"valueKind,omitempty"`
	Locked    bool       `json:"locked"`
	IsBone    bool       `json:"isBone,omitempty"`
	Children  []trackDTO `json:"children,omitempty"`
}

func toTrackDTO(tr *track.Track) trackDTO {
	var d trackDTO
	// copier matches ID, Name, Locked, IsBone by field name; Kind and
	// ValueKind need the type translation below, so they're set after.
	_ = copier.Copy(&d, tr)
	d.Kind = "Ref"
	if tr.Kind == track.KindProp {
		d.Kind = "Prop"
		d.ValueKind = tr.ValueKind
	}
	for _, c := range tr.Children() {
		d.Children = append(d.Children, toTrackDTO(c))
	}
	return d
}

func (a TrackAPI) listTracks(_ *gin.Context, _ *struct{}) ([]trackDTO, error) {
	sess := a.uc.Session
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	roots := sess.Project.Tree.Roots()
	out := make([]trackDTO, len(roots))
	for i, r := range roots {
		out[i] = toTrackDTO(r)
	}
	return out, nil
}

type getTrackInput struct {
	ID string `uri:"id"`
}

func (a TrackAPI) getTrack(_ *gin.Context, in *getTrackInput) (*trackDTO, error) {
	sess := a.uc.Session
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	tr, err := sess.Project.Tree.Find(in.ID)
	if err != nil {
		return nil, err
	}
	d := toTrackDTO(tr)
	return &d, nil
}

type addTrackInput struct {
	ParentID  string     `json:"parentId"`
	Name      string     `json:"name" binding:"required"`
	Kind      string     `json:"kind" binding:"required"`
	ValueKind value.Kind `json:"valueKind"`
	IsBone    bool       `json:"isBone"`
}

func (a TrackAPI) addTrack(_ *gin.Context, in *addTrackInput) (*trackDTO, error) {
	var tr *track.Track
	switch in.Kind {
	case "Ref":
		tr = track.NewRefTrack(in.Name)
	case "Prop":
		if in.IsBone {
			tr = track.NewBonePropTrack(in.Name)
		} else {
			tr = track.NewPropTrack(in.Name, in.ValueKind)
		}
	default:
		return nil, webkit.ErrInvalidBody.SetMsg("kind must be Ref or Prop")
	}

	sess := a.uc.Session
	sess.mu.Lock()
	defer sess.mu.Unlock()
	var err error
	if in.ParentID == "" {
		err = sess.Project.Tree.AddRoot(tr)
	} else {
		err = sess.Project.Tree.AddChild(in.ParentID, tr)
	}
	if err != nil {
		return nil, err
	}
	d := toTrackDTO(tr)
	return &d, nil
}

func (a TrackAPI) deleteTrack(_ *gin.Context, in *getTrackInput) (gin.H, error) {
	sess := a.uc.Session
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.Project.Tree.Remove(in.ID); err != nil {
		return nil, err
	}
	return gin.H{"id": in.ID}, nil
}

type setLockedInput struct {
	ID     string `uri:"id"`
	Locked bool   `json:"locked"`
}

func (a TrackAPI) setLocked(_ *gin.Context, in *setLockedInput) (gin.H, error) {
	sess := a.uc.Session
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.Project.Tree.SetLocked(in.ID, in.Locked); err != nil {
		return nil, err
	}
	return gin.H{"id": in.ID, "locked": in.Locked}, nil
}
