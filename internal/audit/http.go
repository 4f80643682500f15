// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmunteanu/primaria/internal/platform/respond"
)

// # Definitions & Constructors

// Handler exposes the read-only admin view of the audit trail.
type Handler struct {
	auditService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{auditService: service}
}

// Routes returns a [chi.Router] for the audit endpoints. The caller mounts it
// behind the admin session and role middleware.
//
// # Endpoints
//   - GET / : Lists audit entries, newest first.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	return router
}

// # Handlers

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter := ListFilter{}

	query := request.URL.Query()
	if value := query.Get("limit"); value != "" {
		filter.Limit, _ = strconv.Atoi(value)
	}
	if value := query.Get("offset"); value != "" {
		filter.Offset, _ = strconv.Atoi(value)
	}
	if value := query.Get("actor_id"); value != "" {
		if actorID, err := strconv.ParseInt(value, 10, 64); err == nil {
			filter.ActorID = &actorID
		}
	}
	filter.EntityType = query.Get("entity_type")

	entries, err := handler.auditService.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}
