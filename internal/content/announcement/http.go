// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package announcement

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmunteanu/primaria/internal/audit"
	"github.com/dmunteanu/primaria/internal/platform/apperr"
	requestutil "github.com/dmunteanu/primaria/internal/platform/request"
	"github.com/dmunteanu/primaria/internal/platform/respond"
	"github.com/dmunteanu/primaria/internal/platform/upload"
	"github.com/dmunteanu/primaria/pkg/pagination"
)

// maxFormMemory bounds the in-memory portion of multipart parsing; bigger
// parts spill to temporary files.
const maxFormMemory = 32 << 20

// # Definitions & Constructors

// Handler implements the announcement HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public, read-only announcement endpoints.
//
// # Endpoints
//   - GET /               : Paginated visible announcements.
//   - GET /{id}           : One visible announcement; counts the view.
//   - GET /by-slug/{slug} : Same, addressed by slug.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.publicList)
	router.Get("/{id}", handler.publicGet)
	router.Get("/by-slug/{slug}", handler.publicGetBySlug)

	return router
}

// AdminRoutes returns the management endpoints. The caller mounts them behind
// the session, role, and CSRF middleware.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.adminList)
	router.Get("/{id}", handler.adminGet)
	router.Post("/", handler.create)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

// # Public Handlers

func (handler *Handler) publicList(writer http.ResponseWriter, request *http.Request) {
	items, meta, err := handler.service.PublicList(
		request.Context(), categoryFilter(request), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, items, meta)
}

func (handler *Handler) publicGet(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.PublicGet(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}

func (handler *Handler) publicGetBySlug(writer http.ResponseWriter, request *http.Request) {
	item, err := handler.service.PublicGetBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}

// # Admin Handlers

func (handler *Handler) adminList(writer http.ResponseWriter, request *http.Request) {
	items, meta, err := handler.service.AdminList(
		request.Context(), categoryFilter(request), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, items, meta)
}

func (handler *Handler) adminGet(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.AdminGet(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	input, document, image, err := decodeForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(
		request.Context(), input, document, image, audit.MetaFromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, document, image, err := decodeForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(
		request.Context(), id, input, document, image, audit.MetaFromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id, audit.MetaFromRequest(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Form Decoding

// decodeForm pulls the announcement fields and optional attachments out of a
// multipart request.
func decodeForm(request *http.Request) (Input, upload.Attachment, upload.Attachment, error) {
	none := upload.Attachment{}

	if err := request.ParseMultipartForm(maxFormMemory); err != nil {
		return Input{}, none, none, apperr.UploadFailure("UPLOAD_TRANSPORT", "Malformed multipart form")
	}

	input := Input{
		Title:       request.FormValue("title"),
		PublishDate: request.FormValue("publish_date"),
		Body:        request.FormValue("body"),
		ShortBody:   request.FormValue("short_body"),
		Vizibil:     parseFlag(request.FormValue("vizibil")),
	}
	input.Priority, _ = strconv.Atoi(request.FormValue("priority"))
	input.CategoryID = parseOptionalID(request.FormValue("category_id"))

	document, err := requestutil.File(request, "document")
	if err != nil {
		return Input{}, none, none, err
	}
	image, err := requestutil.File(request, "image")
	if err != nil {
		return Input{}, none, none, err
	}

	return input, document, image, nil
}

func parseFlag(value string) bool {
	return value == "1" || value == "true" || value == "on"
}

func parseOptionalID(value string) *int64 {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// categoryFilter reads the optional ?category= query parameter.
func categoryFilter(request *http.Request) *int64 {
	return parseOptionalID(request.URL.Query().Get("category"))
}
