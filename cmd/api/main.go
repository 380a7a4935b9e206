package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/audit"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/config"
	dbpkg "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/db"
	domainConsultation "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/consultation"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/infra/cache"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/infra/notes"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/infra/photo"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/logger"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/routes"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/timezone"
	ucConsultation "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/usecase/consultation"
)

func main() {

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Log.WithError(err).Fatal("invalid configuration")
	}
	if !timezone.IsValid(cfg.ClinicTimezone) {
		logger.Log.WithField("timezone", cfg.ClinicTimezone).Warn("unknown clinic timezone, falling back")
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}
	defer dbpkg.Close(db)

	// ======================================================
	// NOTES BACKEND
	// ======================================================
	var notesStore domainConsultation.NotesStore
	switch cfg.NotesBackend {
	case config.NotesBackendS3:
		notesStore = notes.NewS3StoreFromConfig(cfg)
	default:
		notesStore = notes.NewFSStore(cfg.DataDir)
	}
	logger.Log.WithField("backend", cfg.NotesBackend).Info("notes store ready")

	// ======================================================
	// DAY CACHE (optional)
	// ======================================================
	var dayCache ucConsultation.DayCache = cache.Noop{}
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Log.WithError(err).Warn("redis unavailable, day cache disabled")
		} else {
			defer client.Close()
			dayCache = cache.NewRedisDayCache(client, cfg.CacheTTL)
		}
	}

	dispatcher := audit.NewDispatcher(audit.New(db))
	defer dispatcher.Close()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Notes:  notesStore,
		Cache:  dayCache,
		Photos: photo.NewStore(cfg.DataDir),
		Audit:  dispatcher,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("addr", cfg.Addr()).Info("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}
}
