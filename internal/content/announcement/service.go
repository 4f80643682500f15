// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package announcement

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmunteanu/primaria/internal/audit"
	"github.com/dmunteanu/primaria/internal/platform/upload"
	"github.com/dmunteanu/primaria/internal/platform/validate"
	"github.com/dmunteanu/primaria/pkg/pagination"
	"github.com/dmunteanu/primaria/pkg/pointer"
	"github.com/dmunteanu/primaria/pkg/slug"
)

// # Service Definition

const (
	// storageSubdir is the directory under the upload root for announcement assets.
	storageSubdir = "anunturi"

	// Illustration images are downsampled to fit these bounds.
	imageMaxWidth  = 1920
	imageMaxHeight = 1080
)

// Service implements announcement use cases for both the public site and
// the admin panel.
type Service struct {
	repository     Repository
	uploads        *upload.Storage
	imagePolicy    upload.Variant
	documentPolicy upload.Variant
	location       *time.Location
	auditor        audit.Recorder
	logger         *slog.Logger
}

// NewService constructs the announcement service.
func NewService(
	repository Repository,
	uploads *upload.Storage,
	imagePolicy upload.Variant,
	documentPolicy upload.Variant,
	location *time.Location,
	auditor audit.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository:     repository,
		uploads:        uploads,
		imagePolicy:    imagePolicy,
		documentPolicy: documentPolicy,
		location:       location,
		auditor:        auditor,
		logger:         logger.With(slog.String("component", "announcement")),
	}
}

// # Public Surface

// PublicList returns visible announcements, newest publish date first.
func (service *Service) PublicList(context context.Context, categoryID *int64, params pagination.Params) ([]Announcement, pagination.Meta, error) {
	filter := Filter{CategoryID: categoryID, VisibleOnly: true}

	items, total, err := service.repository.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return items, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
PublicGet returns one visible announcement and counts the read.

Description: The view counter is bumped after the item is resolved; a failed
bump is logged but never denies the visitor the page.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Announcement: The item, with the fresh view included
  - error: apperr.NotFound for hidden or missing items
*/
func (service *Service) PublicGet(context context.Context, id int64) (*Announcement, error) {
	item, err := service.repository.GetByID(context, id, true)
	if err != nil {
		return nil, err
	}

	if err := service.repository.IncrementViews(context, item.ID); err != nil {
		service.logger.Error("view count increment failed", slog.Int64("id", item.ID), slog.Any("error", err))
	} else {
		item.Views++
	}

	return item, nil
}

// PublicGetBySlug is [PublicGet] addressed by slug.
func (service *Service) PublicGetBySlug(context context.Context, itemSlug string) (*Announcement, error) {
	item, err := service.repository.GetBySlug(context, itemSlug, true)
	if err != nil {
		return nil, err
	}

	if err := service.repository.IncrementViews(context, item.ID); err != nil {
		service.logger.Error("view count increment failed", slog.Int64("id", item.ID), slog.Any("error", err))
	} else {
		item.Views++
	}

	return item, nil
}

// # Admin Surface

// AdminList returns announcements regardless of visibility.
func (service *Service) AdminList(context context.Context, categoryID *int64, params pagination.Params) ([]Announcement, pagination.Meta, error) {
	items, total, err := service.repository.List(context, Filter{CategoryID: categoryID}, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return items, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// AdminGet returns one announcement regardless of visibility.
func (service *Service) AdminGet(context context.Context, id int64) (*Announcement, error) {
	return service.repository.GetByID(context, id, false)
}

// Input is the admin payload for creating or updating an announcement.
// Attachments travel separately as multipart files.
type Input struct {
	Title       string
	CategoryID  *int64
	PublishDate string
	Body        string
	ShortBody   string
	Vizibil     bool
	Priority    int
}

func (input Input) validate() error {
	validator := &validate.Validator{}
	validator.Required("title", input.Title).
		MaxLen("title", input.Title, 255).
		Required("body", input.Body).
		MaxLen("short_body", input.ShortBody, 500).
		Required("publish_date", input.PublishDate).
		Date("publish_date", input.PublishDate).
		Range("priority", input.Priority, 0, 100)
	return validator.Err()
}

func (service *Service) parsePublishDate(value string) time.Time {
	parsed, _ := time.ParseInLocation(validate.DateLayout, value, service.location)
	return parsed
}

/*
Create validates input, stores attachments, and persists the announcement.

Description: Files are written before the row so a storage failure never
leaves a row pointing at nothing; conversely, an insert failure rolls the
just-stored files back off the disk.

Parameters:
  - context: context.Context
  - input: Input (form fields)
  - document: Optional attached official document
  - image: Optional illustration image
  - meta: Audit attribution; the actor becomes CreatedBy

Returns:
  - *Announcement: The persisted item
  - error: Validation, upload taxonomy, or storage errors
*/
func (service *Service) Create(context context.Context, input Input, document, image upload.Attachment, meta audit.Meta) (*Announcement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	item := &Announcement{
		Title:       input.Title,
		Slug:        slug.From(input.Title),
		CategoryID:  input.CategoryID,
		PublishDate: service.parsePublishDate(input.PublishDate),
		Body:        input.Body,
		ShortBody:   input.ShortBody,
		Vizibil:     input.Vizibil,
		Priority:    input.Priority,
		CreatedBy:   meta.ActorID,
	}

	stored := []string{}
	if document.Present() {
		path, err := service.uploads.Save(document.File, document.Header, service.documentPolicy, storageSubdir)
		if err != nil {
			return nil, err
		}
		stored = append(stored, path)
		item.DocumentFile = pointer.To(path)
	}
	if image.Present() {
		path, err := service.uploads.Save(image.File, image.Header, service.imagePolicy, storageSubdir)
		if err != nil {
			service.discard(stored)
			return nil, err
		}
		stored = append(stored, path)
		item.ImageFile = pointer.To(path)

		if err := service.uploads.Optimize(path, imageMaxWidth, imageMaxHeight); err != nil {
			service.logger.Warn("image optimization failed", slog.String("path", path), slog.Any("error", err))
		}
	}

	if err := service.repository.Create(context, item); err != nil {
		service.discard(stored)
		return nil, err
	}

	service.auditor.Record(context, audit.ActionCreate, "announcement", item.ID, item.Title, meta)
	return item, nil
}

/*
Update modifies an announcement, replacing attachments when new ones arrive.

Description: Replacement follows a strict order: the new file is stored, the
database row is updated to reference it, and only after that commit succeeds
is the old file unlinked. A crash mid-sequence can orphan a file on disk but
can never leave the row pointing at a deleted one.

Parameters:
  - context: context.Context
  - id: int64
  - input: Input (form fields)
  - document: Replacement document, absent to keep the current one
  - image: Replacement image, absent to keep the current one
  - meta: Audit attribution

Returns:
  - *Announcement: The updated item
  - error: Validation, upload taxonomy, or storage errors
*/
func (service *Service) Update(context context.Context, id int64, input Input, document, image upload.Attachment, meta audit.Meta) (*Announcement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	item, err := service.repository.GetByID(context, id, false)
	if err != nil {
		return nil, err
	}

	item.Title = input.Title
	item.Slug = slug.From(input.Title)
	item.CategoryID = input.CategoryID
	item.PublishDate = service.parsePublishDate(input.PublishDate)
	item.Body = input.Body
	item.ShortBody = input.ShortBody
	item.Vizibil = input.Vizibil
	item.Priority = input.Priority

	fresh := []string{}
	obsolete := []string{}

	if document.Present() {
		path, err := service.uploads.Save(document.File, document.Header, service.documentPolicy, storageSubdir)
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, path)
		if item.DocumentFile != nil {
			obsolete = append(obsolete, *item.DocumentFile)
		}
		item.DocumentFile = pointer.To(path)
	}
	if image.Present() {
		path, err := service.uploads.Save(image.File, image.Header, service.imagePolicy, storageSubdir)
		if err != nil {
			service.discard(fresh)
			return nil, err
		}
		fresh = append(fresh, path)
		if item.ImageFile != nil {
			obsolete = append(obsolete, *item.ImageFile)
		}
		item.ImageFile = pointer.To(path)

		if err := service.uploads.Optimize(path, imageMaxWidth, imageMaxHeight); err != nil {
			service.logger.Warn("image optimization failed", slog.String("path", path), slog.Any("error", err))
		}
	}

	if err := service.repository.Update(context, item); err != nil {
		service.discard(fresh)
		return nil, err
	}

	// The row now references the new files; the old ones can go.
	service.discard(obsolete)

	service.auditor.Record(context, audit.ActionUpdate, "announcement", item.ID, item.Title, meta)
	return item, nil
}

/*
Delete removes an announcement and its attachments.

Description: The row goes first; files are unlinked only after the delete
commits, mirroring the replacement ordering.

Parameters:
  - context: context.Context
  - id: int64
  - meta: Audit attribution

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) Delete(context context.Context, id int64, meta audit.Meta) error {
	item, err := service.repository.GetByID(context, id, false)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	leftovers := []string{}
	if item.DocumentFile != nil {
		leftovers = append(leftovers, *item.DocumentFile)
	}
	if item.ImageFile != nil {
		leftovers = append(leftovers, *item.ImageFile)
	}
	service.discard(leftovers)

	service.auditor.Record(context, audit.ActionDelete, "announcement", id, item.Title, meta)
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
