// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package gallery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmunteanu/primaria/internal/audit"
	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/upload"
	"github.com/dmunteanu/primaria/internal/platform/validate"
	"github.com/dmunteanu/primaria/pkg/pagination"
	"github.com/dmunteanu/primaria/pkg/slug"
)

// # Service Definition

const (
	// storageSubdir is the directory under the upload root for album photos.
	storageSubdir = "galerie"

	// Photos are downsampled to fit these bounds.
	photoMaxWidth  = 1920
	photoMaxHeight = 1080
)

// Service implements album and photo use cases.
type Service struct {
	repository  Repository
	uploads     *upload.Storage
	photoPolicy upload.Variant
	auditor     audit.Recorder
	logger      *slog.Logger
}

// NewService constructs the gallery service.
func NewService(
	repository Repository,
	uploads *upload.Storage,
	photoPolicy upload.Variant,
	auditor audit.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository:  repository,
		uploads:     uploads,
		photoPolicy: photoPolicy,
		auditor:     auditor,
		logger:      logger.With(slog.String("component", "gallery")),
	}
}

// # Public Surface

// PublicListAlbums returns visible albums, newest first.
func (service *Service) PublicListAlbums(context context.Context, params pagination.Params) ([]Album, pagination.Meta, error) {
	albums, total, err := service.repository.ListAlbums(context, true, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return albums, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// PublicGetAlbum returns one visible album with its photos in rank order.
func (service *Service) PublicGetAlbum(context context.Context, id int64) (*Album, error) {
	return service.getAlbum(context, id, true)
}

// # Admin Surface

// AdminListAlbums returns albums regardless of visibility.
func (service *Service) AdminListAlbums(context context.Context, params pagination.Params) ([]Album, pagination.Meta, error) {
	albums, total, err := service.repository.ListAlbums(context, false, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return albums, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// AdminGetAlbum returns one album with its photos regardless of visibility.
func (service *Service) AdminGetAlbum(context context.Context, id int64) (*Album, error) {
	return service.getAlbum(context, id, false)
}

func (service *Service) getAlbum(context context.Context, id int64, visibleOnly bool) (*Album, error) {
	album, err := service.repository.GetAlbum(context, id, visibleOnly)
	if err != nil {
		return nil, err
	}

	photos, err := service.repository.ListPhotos(context, album.ID)
	if err != nil {
		return nil, err
	}
	album.Photos = photos

	return album, nil
}

// Input is the admin payload for creating or updating an album.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  *int64 `json:"category_id"`
	Vizibil     bool   `json:"vizibil"`
}

func (input Input) validate() error {
	validator := &validate.Validator{}
	validator.Required("title", input.Title).
		MaxLen("title", input.Title, 255).
		MaxLen("description", input.Description, 2000)
	return validator.Err()
}

// CreateAlbum persists a new, initially empty album.
func (service *Service) CreateAlbum(context context.Context, input Input, meta audit.Meta) (*Album, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	album := &Album{
		Title:       input.Title,
		Slug:        slug.From(input.Title),
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Vizibil:     input.Vizibil,
		CreatedBy:   meta.ActorID,
	}

	if err := service.repository.CreateAlbum(context, album); err != nil {
		return nil, err
	}

	service.auditor.Record(context, audit.ActionCreate, "album", album.ID, album.Title, meta)
	return album, nil
}

// UpdateAlbum modifies an album's descriptive fields. Photos and the cover
// are managed through their own operations.
func (service *Service) UpdateAlbum(context context.Context, id int64, input Input, meta audit.Meta) (*Album, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	album, err := service.repository.GetAlbum(context, id, false)
	if err != nil {
		return nil, err
	}

	album.Title = input.Title
	album.Slug = slug.From(input.Title)
	album.Description = input.Description
	album.CategoryID = input.CategoryID
	album.Vizibil = input.Vizibil

	if err := service.repository.UpdateAlbum(context, album); err != nil {
		return nil, err
	}

	service.auditor.Record(context, audit.ActionUpdate, "album", album.ID, album.Title, meta)
	return album, nil
}

/*
DeleteAlbum removes an album, its photos, and their files.

Description: The cascade runs files first, then the photo rows, then the
album row, so a partial failure leaves rows still pointing at whatever files
remain rather than the other way around. File removal is best-effort.

Parameters:
  - context: context.Context
  - id: int64
  - meta: Audit attribution

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) DeleteAlbum(context context.Context, id int64, meta audit.Meta) error {
	album, err := service.repository.GetAlbum(context, id, false)
	if err != nil {
		return err
	}

	photos, err := service.repository.ListPhotos(context, id)
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(photos))
	for _, photo := range photos {
		paths = append(paths, photo.Filename)
	}
	service.discard(paths)

	if err := service.repository.DeletePhotosByAlbum(context, id); err != nil {
		return err
	}
	if err := service.repository.DeleteAlbum(context, id); err != nil {
		return err
	}

	service.auditor.Record(context, audit.ActionDelete, "album", id, album.Title, meta)
	return nil
}

// # Photo Management

/*
AddPhoto validates and stores an uploaded photo, appending it to the album.

Description: The file is written before the row; an insert failure rolls the
file back off the disk. When the album had no cover yet, the new photo
becomes the cover, so an album with photos always has one.

Parameters:
  - context: context.Context
  - albumID: int64
  - photo: The uploaded image
  - meta: Audit attribution

Returns:
  - *Photo: The persisted photo
  - error: Upload taxonomy, apperr.NotFound, or storage errors
*/
func (service *Service) AddPhoto(context context.Context, albumID int64, photo upload.Attachment, meta audit.Meta) (*Photo, error) {
	if !photo.Present() {
		return nil, apperr.ValidationError("A photo file is required", apperr.FieldError{
			Field:   "photo",
			Message: "required",
		})
	}

	album, err := service.repository.GetAlbum(context, albumID, false)
	if err != nil {
		return nil, err
	}

	path, err := service.uploads.Save(photo.File, photo.Header, service.photoPolicy, storageSubdir)
	if err != nil {
		return nil, err
	}

	if err := service.uploads.Optimize(path, photoMaxWidth, photoMaxHeight); err != nil {
		service.logger.Warn("photo optimization failed", slog.String("path", path), slog.Any("error", err))
	}

	item := &Photo{AlbumID: album.ID, Filename: path}
	if err := service.repository.AddPhoto(context, item); err != nil {
		service.discard([]string{path})
		return nil, err
	}

	if album.CoverPhotoID == nil {
		if err := service.repository.SetCover(context, album.ID, &item.ID); err != nil {
			service.logger.Error("cover assignment failed", slog.Int64("album_id", album.ID), slog.Any("error", err))
		}
	}

	service.auditor.Record(context, audit.ActionCreate, "photo", item.ID,
		fmt.Sprintf("album %d: %s", album.ID, path), meta)
	return item, nil
}

/*
DeletePhoto removes a photo from its album.

Description: When the deleted photo was the album's cover, the cover moves
to the first remaining photo by rank, or is cleared when none is left. The
file is unlinked only after the row delete and cover reassignment commit.

Parameters:
  - context: context.Context
  - id: int64
  - meta: Audit attribution

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) DeletePhoto(context context.Context, id int64, meta audit.Meta) error {
	photo, err := service.repository.GetPhoto(context, id)
	if err != nil {
		return err
	}

	album, err := service.repository.GetAlbum(context, photo.AlbumID, false)
	if err != nil {
		return err
	}

	if err := service.repository.DeletePhoto(context, id); err != nil {
		return err
	}

	if album.CoverPhotoID != nil && *album.CoverPhotoID == photo.ID {
		candidate, err := service.repository.NextCoverCandidate(context, photo.AlbumID, photo.ID)
		if err != nil {
			return err
		}
		if err := service.repository.SetCover(context, photo.AlbumID, candidate); err != nil {
			return err
		}
	}

	service.discard([]string{photo.Filename})

	service.auditor.Record(context, audit.ActionDelete, "photo", id,
		fmt.Sprintf("album %d: %s", photo.AlbumID, photo.Filename), meta)
	return nil
}

// SetCover points the album's cover at one of its own photos, or clears it.
// A photo from another album is refused.
func (service *Service) SetCover(context context.Context, albumID int64, photoID *int64, meta audit.Meta) error {
	album, err := service.repository.GetAlbum(context, albumID, false)
	if err != nil {
		return err
	}

	if photoID != nil {
		photo, err := service.repository.GetPhoto(context, *photoID)
		if err != nil {
			return err
		}
		if photo.AlbumID != album.ID {
			return apperr.ValidationError("Cover photo must belong to the album", apperr.FieldError{
				Field:   "photo_id",
				Message: "not part of this album",
			})
		}
	}

	if err := service.repository.SetCover(context, album.ID, photoID); err != nil {
		return err
	}

	service.auditor.Record(context, audit.ActionUpdate, "album", album.ID, "cover change", meta)
	return nil
}

// discard best-effort removes stored files, logging rather than failing.
func (service *Service) discard(paths []string) {
	for _, path := range paths {
		if err := service.uploads.Delete(path); err != nil {
			service.logger.Error("file cleanup failed", slog.String("path", path), slog.Any("error", err))
		}
	}
}
