// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/server"
	"go-tower-defense-sim/internal/storage"
	"go-tower-defense-sim/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid configuration")
	}
	logger.Configure(settings.LogLevel, settings.LogFormat, os.Stdout)
	log := logger.Component("main")
	gin.SetMode(gin.ReleaseMode)

	lib := defs.DefaultLibrary()
	if settings.TowerDefs != "" || settings.MobDefs != "" {
		if lib, err = defs.LoadLibrary(settings.TowerDefs, settings.MobDefs); err != nil {
			log.WithError(err).Fatal("Failed to load definitions")
		}
	}
	store, err := storage.NewStore(settings.SaveDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to open save dir")
	}

	manager := server.NewManager(lib, settings, store)
	srv := &http.Server{
		Addr:    settings.Addr,
		Handler: server.SetupRouter(manager),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", settings.Addr).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	manager.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Shutdown error")
	}
}
