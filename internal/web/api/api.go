package api

import (
	"expvar"
	"net/http"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/gowvp/moviemaker/internal/web/webkit"
)

var startRuntime = time.Now()

func setupRouter(r *gin.Engine, uc *Usecase) {
	const staticPrefix = "/web"

	r.Use(
		webkit.Recovery(),
		webkit.Logger(),
	)

	r.Use(cors.New(cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Accept", "Content-Length", "Content-Type", "Range", "Accept-Language",
			"Origin", "Authorization", "Referer", "User-Agent", "Accept-Encoding",
			"Cache-Control", "Pragma", "X-Requested-With", "X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
		AllowOriginFunc: func(_ string) bool {
			return true
		},
	}))

	if uc.Conf.Server.HTTP.StaticDir != "" {
		admin := r.Group(staticPrefix, gzip.Gzip(gzip.DefaultCompression))
		admin.Static("/", uc.Conf.Server.HTTP.StaticDir)
		r.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, staticPrefix) {
				c.File(filepath.Join(uc.Conf.Server.HTTP.StaticDir, "index.html"))
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
		})
	}

	r.GET("/health", webkit.WrapH(uc.getHealth))
	r.GET("/app/metrics/api", webkit.WrapH(uc.getMetricsAPI))

	auth := webkit.AuthMiddleware(uc.Conf.Server.HTTP.JwtSecret)
	RegisterUser(r, uc.UserAPI, auth)
	RegisterTrack(r, uc.TrackAPI, auth)
	RegisterPlayer(r, uc.PlayerAPI, auth)
	RegisterRecorder(r, uc.RecorderAPI, auth)
	RegisterEdit(r, uc.EditAPI, auth)
	RegisterModification(r, uc.ModificationAPI, auth)
	RegisterProject(r, uc.ProjectAPI, auth)
	RegisterClips(r, uc.ClipsAPI, auth)
}

type getHealthOutput struct {
	Version string    `json:"version"`
	StartAt time.Time `json:"start_at"`
}

func (uc *Usecase) getHealth(_ *gin.Context, _ *struct{}) (getHealthOutput, error) {
	return getHealthOutput{Version: uc.Conf.BuildVersion, StartAt: startRuntime}, nil
}

type getMetricsAPIOutput struct {
	RealTimeRequests int64   `json:"real_time_requests"`
	TotalRequests    int64   `json:"total_requests"`
	TotalResponses   int64   `json:"total_responses"`
	RequestTop10     []KV    `json:"request_top10"`
	StatusCodeTop10  []KV    `json:"status_code_top10"`
	NumGC            uint32  `json:"num_gc"`
	SysAlloc         uint64  `json:"sys_alloc"`
	HostMemPercent   float64 `json:"host_mem_percent"`
	HostCPUPercent   float64 `json:"host_cpu_percent"`
	StartAt          string  `json:"start_at"`
}

func (uc *Usecase) getMetricsAPI(_ *gin.Context, _ *struct{}) (*getMetricsAPIOutput, error) {
	req, _ := expvarInt("request")
	reqs, _ := expvarInt("requests")
	resps, _ := expvarInt("responses")

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	return &getMetricsAPIOutput{
		RealTimeRequests: req,
		TotalRequests:    reqs,
		TotalResponses:   resps,
		RequestTop10:     sortExpvarMap("requestURLs", 10),
		StatusCodeTop10:  sortExpvarMap("statusCodes", 10),
		NumGC:            stats.NumGC,
		SysAlloc:         stats.Sys,
		HostMemPercent:   hostMemPercent(),
		HostCPUPercent:   hostCPUPercent(),
		StartAt:          startRuntime.Format(time.DateTime),
	}, nil
}

// hostMemPercent reports the host's used-memory percentage, best-effort: a
// read failure (e.g. sandboxed/containerized /proc) reports 0 rather than
// failing the whole metrics response.
func hostMemPercent() float64 {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return v.UsedPercent
}

// hostCPUPercent samples a short, non-blocking CPU percentage window.
func hostCPUPercent() float64 {
	pcts, err := cpu.Percent(0, false)
	if err != nil || len(pcts) == 0 {
		return 0
	}
	return pcts[0]
}

func expvarInt(name string) (int64, bool) {
	v := expvar.Get(name)
	i, ok := v.(*expvar.Int)
	if !ok {
		return 0, false
	}
	return i.Value(), true
}

type KV struct {
	Key   string
	Value int64
}

func sortExpvarMap(name string, top int) []KV {
	v := expvar.Get(name)
	data, ok := v.(*expvar.Map)
	if !ok {
		return nil
	}
	kvs := make([]KV, 0, 8)
	data.Do(func(kv expvar.KeyValue) {
		i, ok := kv.Value.(*expvar.Int)
		if !ok {
			return
		}
		kvs = append(kvs, KV{Key: kv.Key, Value: i.Value()})
	})
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Value > kvs[j].Value })
	if len(kvs) < top {
		top = len(kvs)
	}
	return kvs[:top]
}
