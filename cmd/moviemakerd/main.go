// Command moviemakerd runs the animation-track editor shell's HTTP API: a
// single long-lived Session over gin, backed by a gorm SourceClip store.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gowvp/moviemaker/internal/app"
	"github.com/gowvp/moviemaker/internal/conf"
)

// buildVersion is stamped by the linker at build time via -ldflags, the
// same way the editor shell's /health endpoint reports it.
var buildVersion = "dev"

func main() {
	configPath := flag.String("conf", "configs/moviemaker.toml", "path to the TOML configuration file")
	flag.Parse()

	log := newLogger()
	slog.SetDefault(log)

	bc, err := conf.Load(*configPath)
	if err != nil {
		log.Warn("load config, falling back to defaults", "path", *configPath, "err", err)
		bc = conf.Default()
		bc.ConfigPath = *configPath
	}
	bc.BuildVersion = buildVersion

	handler, cleanup, err := app.WireApp(bc, log)
	if err != nil {
		log.Error("wire app", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:    bc.Server.HTTP.Addr,
		Handler: handler,
	}

	go func() {
		log.Info("listening", "addr", bc.Server.HTTP.Addr, "version", buildVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
