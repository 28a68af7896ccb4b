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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/BruksfildServices01/oto-servis/internal/audit"
	"github.com/BruksfildServices01/oto-servis/internal/config"
	dbpkg "github.com/BruksfildServices01/oto-servis/internal/db"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/routes"
	"github.com/BruksfildServices01/oto-servis/internal/session"
	"github.com/BruksfildServices01/oto-servis/internal/storage"
	"github.com/BruksfildServices01/oto-servis/internal/timezone"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "oto-servis"}).
			Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "oto-servis",
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
	})
	ctx := context.Background()

	if !timezone.IsValid(cfg.Shop.Timezone) {
		log.Warn(ctx, "invalid SHOP_TIMEZONE, falling back to "+timezone.DefaultTimezone)
		cfg.Shop.Timezone = timezone.DefaultTimezone
	}

	// ======================================================
	// DATABASE
	// ======================================================
	db, err := dbpkg.NewDB(ctx, cfg.DB, log)
	if err != nil {
		log.Error(ctx, "database unavailable", err)
		os.Exit(1)
	}
	defer dbpkg.Close(db)

	// ======================================================
	// REVOCATION (REDIS OU MEMÓRIA)
	// ======================================================
	var revoker session.Revoker = session.NewMemoryRevoker()
	if cfg.Redis.URL != "" {
		client, err := session.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Error(ctx, "redis unavailable", err)
			os.Exit(1)
		}
		defer client.Close()
		revoker = session.NewRedisRevoker(client)
	} else {
		log.Warn(ctx, "REDIS_URL not set, token revocation kept in memory")
	}

	// ======================================================
	// PHOTO STORAGE (OPCIONAL)
	// ======================================================
	var store storage.ObjectStore
	s3Store, err := storage.NewS3Store(cfg.S3)
	switch {
	case err == nil:
		store = s3Store
	case errors.Is(err, storage.ErrDisabled):
		log.Warn(ctx, "S3_BUCKET not set, photo upload disabled")
	default:
		log.Error(ctx, "object storage unavailable", err)
		os.Exit(1)
	}

	// ======================================================
	// AUDIT + METRICS
	// ======================================================
	dispatcher := audit.NewDispatcher(audit.New(db), log, cfg.Audit.QueueSize)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(cfg.App.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Revoker:  revoker,
		Store:    store,
		Registry: registry,
		Audit:    dispatcher,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info(ctx, "server running on "+cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server stopped", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "graceful shutdown failed", err)
	}

	// drena o que ficou na fila de auditoria
	dispatcher.Close()
}
