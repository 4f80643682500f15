// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package document

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

const maxFormMemory = 32 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public document endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.publicList)
	router.Get("/{id}", handler.publicGet)

	return router
}

// AdminRoutes returns the management endpoints.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.adminList)
	router.Get("/{id}", handler.adminGet)
	router.Post("/", handler.create)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

func (handler *Handler) publicList(writer http.ResponseWriter, request *http.Request) {
	documents, meta, err := handler.service.PublicList(
		request.Context(), categoryFilter(request), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, documents, meta)
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

func (handler *Handler) adminList(writer http.ResponseWriter, request *http.Request) {
	documents, meta, err := handler.service.AdminList(
		request.Context(), categoryFilter(request), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, documents, meta)
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
	input, file, err := decodeForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), input, file, audit.MetaFromRequest(request))
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

	input, file, err := decodeForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), id, input, file, audit.MetaFromRequest(request))
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

func decodeForm(request *http.Request) (Input, upload.Attachment, error) {
	if err := request.ParseMultipartForm(maxFormMemory); err != nil {
		return Input{}, upload.Attachment{}, apperr.UploadFailure("UPLOAD_TRANSPORT", "Malformed multipart form")
	}

	input := Input{
		Title:       request.FormValue("title"),
		PublishDate: request.FormValue("publish_date"),
		Description: request.FormValue("description"),
		Vizibil:     parseFlag(request.FormValue("vizibil")),
	}
	input.CategoryID = parseOptionalID(request.FormValue("category_id"))

	file, err := requestutil.File(request, "document")
	if err != nil {
		return Input{}, upload.Attachment{}, err
	}

	return input, file, nil
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

func categoryFilter(request *http.Request) *int64 {
	return parseOptionalID(request.URL.Query().Get("category"))
}
