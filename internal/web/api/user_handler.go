package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gowvp/moviemaker/internal/conf"
	"github.com/gowvp/moviemaker/internal/web/webkit"
)

// UserAPI authenticates the editor shell's single operator account.
type UserAPI struct {
	conf *conf.Bootstrap
}

func NewUserAPI(conf *conf.Bootstrap) UserAPI {
	return UserAPI{conf: conf}
}

func RegisterUser(r gin.IRouter, api UserAPI, mid ...gin.HandlerFunc) {
	r.POST("/login", webkit.WrapH(api.login))
	group := r.Group("/users", mid...)
	group.PUT("/credentials", webkit.WrapHs(api.updateCredentials, mid...)...)
}

type loginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginOutput struct {
	Token string `json:"token"`
	User  string `json:"user"`
}

func (api UserAPI) login(_ *gin.Context, in *loginInput) (*loginOutput, error) {
	if api.conf.Server.Auth.Username == "" && api.conf.Server.Auth.Password == "" {
		api.conf.Server.Auth.Username = "admin"
		api.conf.Server.Auth.Password = "admin"
	}
	if in.Username != api.conf.Server.Auth.Username || in.Password != api.conf.Server.Auth.Password {
		return nil, webkit.ErrUnauthorized.SetMsg("用户名或密码错误")
	}

	claims := webkit.NewClaims(in.Username)
	token, err := webkit.NewToken(claims, api.conf.Server.HTTP.JwtSecret, webkit.WithExpiresAt(time.Now().Add(3*24*time.Hour)))
	if err != nil {
		return nil, webkit.ErrServer.SetMsg("生成token失败: " + err.Error())
	}
	return &loginOutput{Token: token, User: in.Username}, nil
}

type updateCredentialsInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (api UserAPI) updateCredentials(_ *gin.Context, in *updateCredentialsInput) (gin.H, error) {
	api.conf.Server.Auth.Username = in.Username
	api.conf.Server.Auth.Password = in.Password
	if api.conf.ConfigPath != "" {
		if err := conf.WriteConfig(api.conf, api.conf.ConfigPath); err != nil {
			return nil, webkit.ErrServer.SetMsg("保存配置失败: " + err.Error())
		}
	}
	return gin.H{"msg": "凭据更新成功"}, nil
}
