// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package gallery

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmunteanu/primaria/internal/audit"
	"github.com/dmunteanu/primaria/internal/platform/apperr"
	requestutil "github.com/dmunteanu/primaria/internal/platform/request"
	"github.com/dmunteanu/primaria/internal/platform/respond"
	"github.com/dmunteanu/primaria/pkg/pagination"
)

// maxFormMemory bounds the in-memory portion of multipart parsing; bigger
// parts spill to temporary files.
const maxFormMemory = 32 << 20

// albumPageSize matches the public site's 4x3 album grid.
const albumPageSize = 12

// # Definitions & Constructors

// Handler implements the gallery HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public, read-only gallery endpoints.
//
// # Endpoints
//   - GET /            : Paginated visible albums.
//   - GET /{id}        : One visible album with its photos in rank order.
//   - GET /{id}/photos : Just the photo list, for lightbox loading.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.publicList)
	router.Get("/{id}", handler.publicGet)
	router.Get("/{id}/photos", handler.publicListPhotos)

	return router
}

// AdminRoutes returns the management endpoints. The caller mounts them behind
// the session, role, and CSRF middleware.
//
// # Endpoints
//   - GET    /             : All albums.
//   - GET    /{id}         : One album with photos.
//   - POST   /             : Create an album.
//   - PUT    /{id}         : Update an album's descriptive fields.
//   - DELETE /{id}         : Delete an album and all its photos.
//   - POST   /{id}/photos  : Upload a photo into the album.
//   - PUT    /{id}/cover   : Point the cover at one of the album's photos.
//   - DELETE /photos/{id}  : Delete a single photo.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.adminList)
	router.Get("/{id}", handler.adminGet)
	router.Post("/", handler.createAlbum)
	router.Put("/{id}", handler.updateAlbum)
	router.Delete("/{id}", handler.deleteAlbum)

	router.Post("/{id}/photos", handler.addPhoto)
	router.Put("/{id}/cover", handler.setCover)
	router.Delete("/photos/{id}", handler.deletePhoto)

	return router
}

// # Public Handlers

func (handler *Handler) publicList(writer http.ResponseWriter, request *http.Request) {
	albums, meta, err := handler.service.PublicListAlbums(
		request.Context(), pagination.FromRequestWithDefault(request, albumPageSize))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, albums, meta)
}

func (handler *Handler) publicGet(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	album, err := handler.service.PublicGetAlbum(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, album)
}

func (handler *Handler) publicListPhotos(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	album, err := handler.service.PublicGetAlbum(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, album.Photos)
}

// # Admin Handlers

func (handler *Handler) adminList(writer http.ResponseWriter, request *http.Request) {
	albums, meta, err := handler.service.AdminListAlbums(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, albums, meta)
}

func (handler *Handler) adminGet(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	album, err := handler.service.AdminGetAlbum(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, album)
}

func (handler *Handler) createAlbum(writer http.ResponseWriter, request *http.Request) {
	input := Input{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateAlbum(request.Context(), input, audit.MetaFromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) updateAlbum(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := Input{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.UpdateAlbum(request.Context(), id, input, audit.MetaFromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteAlbum(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteAlbum(request.Context(), id, audit.MetaFromRequest(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Photo Handlers

func (handler *Handler) addPhoto(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(maxFormMemory); err != nil {
		respond.Error(writer, request, apperr.UploadFailure("UPLOAD_TRANSPORT", "Malformed multipart form"))
		return
	}

	photo, err := requestutil.File(request, "photo")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.AddPhoto(request.Context(), id, photo, audit.MetaFromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) setCover(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload := struct {
		PhotoID *int64 `json:"photo_id"`
	}{}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SetCover(request.Context(), id, payload.PhotoID, audit.MetaFromRequest(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) deletePhoto(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeletePhoto(request.Context(), id, audit.MetaFromRequest(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
