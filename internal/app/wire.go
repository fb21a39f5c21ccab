//go:build wireinject

package app

import (
	"log/slog"
	"net/http"

	"github.com/google/wire"

	"github.com/gowvp/moviemaker/internal/conf"
	"github.com/gowvp/moviemaker/internal/data"
	"github.com/gowvp/moviemaker/internal/web/api"
)

func WireApp(bc *conf.Bootstrap, log *slog.Logger) (http.Handler, func(), error) {
	panic(wire.Build(data.ProviderSet, api.ProviderSet))
}
