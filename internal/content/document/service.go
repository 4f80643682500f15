// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package document

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmunteanu/primaria/internal/audit"
	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/upload"
	"github.com/dmunteanu/primaria/internal/platform/validate"
	"github.com/dmunteanu/primaria/pkg/pagination"
	"github.com/dmunteanu/primaria/pkg/slug"
)

// storageSubdir is the directory under the upload root for project documents.
const storageSubdir = "proiecte"

// Service implements project-document use cases.
type Service struct {
	repository     Repository
	uploads        *upload.Storage
	documentPolicy upload.Variant
	location       *time.Location
	auditor        audit.Recorder
	logger         *slog.Logger
}

// NewService constructs the document service.
func NewService(
	repository Repository,
	uploads *upload.Storage,
	documentPolicy upload.Variant,
	location *time.Location,
	auditor audit.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository:     repository,
		uploads:        uploads,
		documentPolicy: documentPolicy,
		location:       location,
		auditor:        auditor,
		logger:         logger.With(slog.String("component", "document")),
	}
}

// # Public Surface

func (service *Service) PublicList(context context.Context, categoryID *int64, params pagination.Params) ([]Document, pagination.Meta, error) {
	documents, total, err := service.repository.List(context,
		Filter{CategoryID: categoryID, VisibleOnly: true}, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return documents, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// PublicGet returns one visible document and counts the read.
func (service *Service) PublicGet(context context.Context, id int64) (*Document, error) {
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

// # Admin Surface

func (service *Service) AdminList(context context.Context, categoryID *int64, params pagination.Params) ([]Document, pagination.Meta, error) {
	documents, total, err := service.repository.List(context,
		Filter{CategoryID: categoryID}, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return documents, pagination.NewMeta(params.Page, params.Limit, total), nil
}

func (service *Service) AdminGet(context context.Context, id int64) (*Document, error) {
	return service.repository.GetByID(context, id, false)
}

// Input is the admin payload for creating or updating a project document.
type Input struct {
	Title       string
	CategoryID  *int64
	PublishDate string
	Description string
	Vizibil     bool
}

func (input Input) validate() error {
	validator := &validate.Validator{}
	validator.Required("title", input.Title).
		MaxLen("title", input.Title, 255).
		MaxLen("description", input.Description, 2000).
		Required("publish_date", input.PublishDate).
		Date("publish_date", input.PublishDate)
	return validator.Err()
}

// Create persists a new project document. The file is mandatory here: a
// project document is its file.
func (service *Service) Create(context context.Context, input Input, file upload.Attachment, meta audit.Meta) (*Document, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if !file.Present() {
		return nil, apperr.ValidationError("A document file is required", apperr.FieldError{
			Field:   "document",
			Message: "This field is required",
		})
	}

	path, err := service.uploads.Save(file.File, file.Header, service.documentPolicy, storageSubdir)
	if err != nil {
		return nil, err
	}

	publishDate, _ := time.ParseInLocation(validate.DateLayout, input.PublishDate, service.location)
	item := &Document{
		Title:        input.Title,
		Slug:         slug.From(input.Title),
		CategoryID:   input.CategoryID,
		PublishDate:  publishDate,
		Description:  input.Description,
		DocumentFile: path,
		Vizibil:      input.Vizibil,
		CreatedBy:    meta.ActorID,
	}

	if err := service.repository.Create(context, item); err != nil {
		service.discard(path)
		return nil, err
	}

	service.auditor.Record(context, audit.ActionCreate, "document", item.ID, item.Title, meta)
	return item, nil
}

// Update modifies a project document; a replacement file is unlinked only
// after the database update commits.
func (service *Service) Update(context context.Context, id int64, input Input, file upload.Attachment, meta audit.Meta) (*Document, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	item, err := service.repository.GetByID(context, id, false)
	if err != nil {
		return nil, err
	}

	publishDate, _ := time.ParseInLocation(validate.DateLayout, input.PublishDate, service.location)
	item.Title = input.Title
	item.Slug = slug.From(input.Title)
	item.CategoryID = input.CategoryID
	item.PublishDate = publishDate
	item.Description = input.Description
	item.Vizibil = input.Vizibil

	if file.Present() {
		path, err := service.uploads.Save(file.File, file.Header, service.documentPolicy, storageSubdir)
		if err != nil {
			return nil, err
		}
		obsolete := item.DocumentFile
		item.DocumentFile = path

		if err := service.repository.Update(context, item); err != nil {
			service.discard(path)
			return nil, err
		}
		service.discard(obsolete)
	} else if err := service.repository.Update(context, item); err != nil {
		return nil, err
	}

	service.auditor.Record(context, audit.ActionUpdate, "document", item.ID, item.Title, meta)
	return item, nil
}

// Delete removes a project document, then its file.
func (service *Service) Delete(context context.Context, id int64, meta audit.Meta) error {
	item, err := service.repository.GetByID(context, id, false)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.discard(item.DocumentFile)

	service.auditor.Record(context, audit.ActionDelete, "document", id, item.Title, meta)
	return nil
}

func (service *Service) discard(path string) {
	if path == "" {
		return
	}
	if err := service.uploads.Delete(path); err != nil {
		service.logger.Error("file cleanup failed", slog.String("path", path), slog.Any("error", err))
	}
}
