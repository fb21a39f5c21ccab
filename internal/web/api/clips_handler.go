package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gowvp/moviemaker/internal/data"
	"github.com/gowvp/moviemaker/internal/web/webkit"
)

// ClipsAPI serves read-side queries over committed SourceClip provenance:
// an editor's takes panel and capture-session activity calendar.
type ClipsAPI struct {
	store *data.Store
}

func NewClipsAPI(store *data.Store) ClipsAPI {
	return ClipsAPI{store: store}
}

func RegisterClips(r gin.IRouter, api ClipsAPI, mid ...gin.HandlerFunc) {
	group := r.Group("/clips", mid...)
	group.GET("", webkit.WrapH(api.list))
	group.GET("/stats", webkit.WrapH(api.monthlyStats))
}

type listClipsInput struct {
	webkit.DateFilter
}

type sourceClipDTO struct {
	ID        string    `json:"id"`
	Origin    string    `json:"origin"`
	StartedAt time.Time `json:"startedAt"`
}

func (a ClipsAPI) list(c *gin.Context, in *listClipsInput) ([]sourceClipDTO, error) {
	start := time.UnixMilli(in.StartMs)
	end := time.Now()
	if in.EndMs > 0 {
		end = time.UnixMilli(in.EndMs)
	}

	rows, err := a.store.FindInRange(c.Request.Context(), start, end)
	if err != nil {
		return nil, webkit.ErrServer.SetMsg(err.Error())
	}
	out := make([]sourceClipDTO, len(rows))
	for i, r := range rows {
		out[i] = sourceClipDTO{ID: r.ID, Origin: r.Origin, StartedAt: r.StartedAt}
	}
	return out, nil
}

type monthlyStatsInput struct {
	Year  int `form:"year" binding:"required"`
	Month int `form:"month" binding:"required"`
}

type monthlyStatsOutput struct {
	Days []bool `json:"days"`
}

func (a ClipsAPI) monthlyStats(c *gin.Context, in *monthlyStatsInput) (*monthlyStatsOutput, error) {
	days, err := a.store.MonthlyStats(c.Request.Context(), in.Year, time.Month(in.Month))
	if err != nil {
		return nil, webkit.ErrServer.SetMsg(err.Error())
	}
	return &monthlyStatsOutput{Days: days}, nil
}
