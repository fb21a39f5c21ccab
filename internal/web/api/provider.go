package api

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/gowvp/moviemaker/internal/conf"
	"github.com/gowvp/moviemaker/internal/core/value"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(Usecase), "*"),
	NewHTTPHandler,
	NewValueRegistry,
	NewSession,
	NewTrackAPI, NewPlayerAPI, NewRecorderAPI, NewEditAPI, NewModificationAPI,
	NewProjectAPI, NewUserAPI, NewClipsAPI,
)

// Usecase bundles every sub-API behind the HTTP handler, plus the shared
// Session each operates on.
type Usecase struct {
	Conf *conf.Bootstrap
	DB   *gorm.DB

	Session *Session

	TrackAPI        TrackAPI
	PlayerAPI       PlayerAPI
	RecorderAPI     RecorderAPI
	EditAPI         EditAPI
	ModificationAPI ModificationAPI
	ProjectAPI      ProjectAPI
	UserAPI         UserAPI
	ClipsAPI        ClipsAPI
}

// NewValueRegistry builds the process-wide value.Registry every Session
// resolves its track types against.
func NewValueRegistry() *value.Registry {
	return value.NewRegistry()
}

// NewHTTPHandler assembles the gin router over uc's sub-APIs, wiring each
// handler's back-reference to uc the way the rest of this handler set
// expects (set once, here, rather than threaded through every New*).
func NewHTTPHandler(uc *Usecase) http.Handler {
	uc.TrackAPI.uc = uc
	uc.PlayerAPI.uc = uc
	uc.RecorderAPI.uc = uc
	uc.EditAPI.uc = uc
	uc.ModificationAPI.uc = uc
	uc.ProjectAPI.uc = uc

	if uc.Conf.Server.HTTP.JwtSecret == "" {
		uc.Conf.Server.HTTP.JwtSecret = randomSecret(32)
	}
	gin.SetMode(gin.ReleaseMode)

	g := gin.New()
	setupRouter(g, uc)
	return g
}

// randomSecret returns a random hex string of 2*n characters, used to seed
// a JWT secret when none is configured.
func randomSecret(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
