// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package api

import (
	"log/slog"
	"net/http"

	"github.com/dmunteanu/primaria/internal/platform/respond"
)

// HealthDependencies lists the backing services the readiness probe
// verifies. A nil checker skips that dependency.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func() error

	// CheckCache pings the Redis client.
	CheckCache func() error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type dependencyStatus struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers returns the GET /health and GET /ready handlers.
// Liveness only proves the process answers; readiness also proves the
// database and cache do, so the load balancer can drain an instance
// whose backends are gone.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checks := []struct {
		name string
		ping func() error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	results := make([]dependencyStatus, 0, len(checks))
	ready := true
	for _, check := range checks {
		if check.ping == nil {
			continue
		}
		status := dependencyStatus{Name: check.name, IsOK: true}
		if err := check.ping(); err != nil {
			status.IsOK = false
			status.Error = err.Error()
			ready = false
			handler.logger.Error("readiness_check_failed",
				slog.String("dependency", check.name),
				slog.Any("error", err),
			)
		}
		results = append(results, status)
	}

	httpStatus := http.StatusOK
	overall := "ready"
	if !ready {
		httpStatus = http.StatusServiceUnavailable
		overall = "degraded"
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		"status": overall,
		"checks": results,
	}})
}
