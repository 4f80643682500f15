// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

// Command api is the entry point for the Primaria HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Prepare the upload storage root.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmunteanu/primaria/internal/api"
	"github.com/dmunteanu/primaria/internal/audit"
	"github.com/dmunteanu/primaria/internal/auth"
	"github.com/dmunteanu/primaria/internal/content/announcement"
	"github.com/dmunteanu/primaria/internal/content/category"
	"github.com/dmunteanu/primaria/internal/content/document"
	"github.com/dmunteanu/primaria/internal/content/record"
	"github.com/dmunteanu/primaria/internal/gallery"
	"github.com/dmunteanu/primaria/internal/platform/config"
	"github.com/dmunteanu/primaria/internal/platform/constants"
	"github.com/dmunteanu/primaria/internal/platform/migration"
	pgstore "github.com/dmunteanu/primaria/internal/platform/postgres"
	redisstore "github.com/dmunteanu/primaria/internal/platform/redis"
	"github.com/dmunteanu/primaria/internal/platform/upload"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Primaria] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Application context outlives startup; cancelling it stops background
	// workers such as the rate limiter sweep.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Upload Storage ─────────────────────────────────────────────────
	uploads, err := upload.NewStorage(cfg.UploadRoot)
	must(log, err, "prepare upload storage")

	imagePolicy := upload.Image(cfg.MaxImageBytes)
	documentPolicy := upload.Document(cfg.MaxDocumentBytes)
	photoPolicy := upload.Photo(cfg.MaxPhotoBytes)
	location := cfg.Location()

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	auditService := audit.NewService(audit.NewPostgresRepository(pool), log)
	auditHandler := audit.NewHandler(auditService)

	sessionManager := auth.NewSessionManager(auth.NewRedisSessionStore(rdb), cfg.CookieSecure, cfg.SameSite())
	tokenStore := auth.NewRedisTokenStore(rdb)
	authService := auth.NewService(auth.NewUserRepository(pool), sessionManager, auditService)
	authHandler := auth.NewHandler(authService, tokenStore, cfg.CookieSecure, cfg.SameSite())

	categoryService := category.NewService(category.NewRepository(pool), auditService)
	categoryHandler := category.NewHandler(categoryService)

	announcementService := announcement.NewService(
		announcement.NewRepository(pool), uploads, imagePolicy, documentPolicy, location, auditService, log)
	announcementHandler := announcement.NewHandler(announcementService)

	recordService := record.NewService(
		record.NewRepository(pool), uploads, documentPolicy, location, auditService, log)
	recordHandler := record.NewHandler(recordService)

	documentService := document.NewService(
		document.NewRepository(pool), uploads, documentPolicy, location, auditService, log)
	documentHandler := document.NewHandler(documentService)

	galleryService := gallery.NewService(gallery.NewRepository(pool), uploads, photoPolicy, auditService, log)
	galleryHandler := gallery.NewHandler(galleryService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         authHandler,
		Category:     categoryHandler,
		Announcement: announcementHandler,
		Record:       recordHandler,
		Document:     documentHandler,
		Gallery:      galleryHandler,
		Audit:        auditHandler,
	}

	server := api.NewServer(appCtx, cfg, log, sessionManager, tokenStore, uploads.Root(), handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
