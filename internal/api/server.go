// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.

Surface layout:

  - /api/v1/...        : Public, read-only municipal content.
  - /api/v1/auth/...   : Session lifecycle.
  - /api/v1/admin/...  : Staff management surface, session + role + CSRF guarded.
  - /uploads/...       : Static delivery of stored documents and photos.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmunteanu/primaria/internal/audit"
	"github.com/dmunteanu/primaria/internal/auth"
	"github.com/dmunteanu/primaria/internal/content/announcement"
	"github.com/dmunteanu/primaria/internal/content/category"
	"github.com/dmunteanu/primaria/internal/content/document"
	"github.com/dmunteanu/primaria/internal/content/record"
	"github.com/dmunteanu/primaria/internal/gallery"
	"github.com/dmunteanu/primaria/internal/platform/config"
	"github.com/dmunteanu/primaria/internal/platform/constants"
	"github.com/dmunteanu/primaria/internal/platform/middleware"
	"github.com/dmunteanu/primaria/internal/platform/sec"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the session lifecycle (login, logout, CSRF faucet).
	Auth *auth.Handler

	// Category manages the classification taxonomy for all content types.
	Category *category.Handler

	// Announcement handles town hall announcements.
	Announcement *announcement.Handler

	// Record handles council decisions and mayoral dispositions.
	Record *record.Handler

	// Document handles project documents open for public consultation.
	Document *document.Handler

	// Gallery handles photo albums of town events.
	Gallery *gallery.Handler

	// Audit exposes the staff activity trail, admin-only.
	Audit *audit.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// The admin surface is guarded three deep: a valid session, the editor role,
// and a single-use anti-forgery token on every mutation. The audit trail
// additionally requires the admin role.
func NewServer(
	context context.Context,
	cfg *config.Config,
	log *slog.Logger,
	authenticator middleware.SessionAuthenticator,
	csrfValidator middleware.CsrfValidator,
	uploadRoot string,
	h Handlers,
) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Static Assets
	// Stored documents and photos are served as-is under /uploads. The
	// storage layer guarantees server-generated, non-colliding filenames.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadRoot)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	requireSession := middleware.RequireSession(authenticator)
	csrfGuard := middleware.CsrfGuard(csrfValidator)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes(requireSession, csrfGuard))

		// Public, read-only content surface. Only visible items appear here.
		api.Mount("/categories", h.Category.Routes())
		api.Mount("/announcements", h.Announcement.Routes())
		api.Mount("/records", h.Record.Routes())
		api.Mount("/documents", h.Document.Routes())
		api.Mount("/albums", h.Gallery.Routes())

		// Staff management surface.
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(requireSession)
			admin.Use(middleware.RequireRole(sec.RoleEditor))
			admin.Use(csrfGuard)

			admin.Mount("/categories", h.Category.AdminRoutes())
			admin.Mount("/announcements", h.Announcement.AdminRoutes())
			admin.Mount("/records", h.Record.AdminRoutes())
			admin.Mount("/documents", h.Document.AdminRoutes())
			admin.Mount("/albums", h.Gallery.AdminRoutes())

			admin.With(middleware.RequireRole(sec.RoleAdmin)).Mount("/audit", h.Audit.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
