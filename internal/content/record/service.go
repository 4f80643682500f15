// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package record

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

// storageSubdir is the directory under the upload root for record documents.
const storageSubdir = "hotarari"

// Service implements record use cases. The kind of a record is fixed at
// creation; an act never changes its legal nature.
type Service struct {
	repository     Repository
	uploads        *upload.Storage
	documentPolicy upload.Variant
	location       *time.Location
	auditor        audit.Recorder
	logger         *slog.Logger
}

// NewService constructs the record service.
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
		logger:         logger.With(slog.String("component", "record")),
	}
}

// # Public Surface

func (service *Service) PublicList(context context.Context, kind string, categoryID *int64, params pagination.Params) ([]Record, pagination.Meta, error) {
	filter := Filter{Kind: kind, CategoryID: categoryID, VisibleOnly: true}

	records, total, err := service.repository.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return records, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// PublicGet returns one visible record and counts the read.
func (service *Service) PublicGet(context context.Context, id int64) (*Record, error) {
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

func (service *Service) AdminList(context context.Context, kind string, categoryID *int64, params pagination.Params) ([]Record, pagination.Meta, error) {
	records, total, err := service.repository.List(context,
		Filter{Kind: kind, CategoryID: categoryID}, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return records, pagination.NewMeta(params.Page, params.Limit, total), nil
}

func (service *Service) AdminGet(context context.Context, id int64) (*Record, error) {
	return service.repository.GetByID(context, id, false)
}

// Input is the admin payload for creating or updating a record.
type Input struct {
	Kind        string
	Number      string
	Title       string
	CategoryID  *int64
	PublishDate string
	ShortBody   string
	Vizibil     bool
}

func (input Input) validate(requireKind bool) error {
	validator := &validate.Validator{}
	validator.Required("number", input.Number).
		MaxLen("number", input.Number, 50).
		Required("title", input.Title).
		MaxLen("title", input.Title, 255).
		MaxLen("short_body", input.ShortBody, 500).
		Required("publish_date", input.PublishDate).
		Date("publish_date", input.PublishDate)
	if requireKind {
		validator.OneOf("kind", input.Kind, Kinds...)
	}
	return validator.Err()
}

// Create validates input, stores the document, and persists the record.
// Files land on disk before the row; an insert failure rolls the file back.
func (service *Service) Create(context context.Context, input Input, document upload.Attachment, meta audit.Meta) (*Record, error) {
	if err := input.validate(true); err != nil {
		return nil, err
	}

	publishDate, _ := time.ParseInLocation(validate.DateLayout, input.PublishDate, service.location)
	item := &Record{
		Kind:        input.Kind,
		Number:      input.Number,
		Title:       input.Title,
		Slug:        slug.From(input.Title),
		CategoryID:  input.CategoryID,
		PublishDate: publishDate,
		ShortBody:   input.ShortBody,
		Vizibil:     input.Vizibil,
		CreatedBy:   meta.ActorID,
	}

	if document.Present() {
		path, err := service.uploads.Save(document.File, document.Header, service.documentPolicy, storageSubdir)
		if err != nil {
			return nil, err
		}
		item.DocumentFile = pointer.To(path)
	}

	if err := service.repository.Create(context, item); err != nil {
		if item.DocumentFile != nil {
			service.discard(*item.DocumentFile)
		}
		return nil, err
	}

	service.auditor.Record(context, audit.ActionCreate, "record", item.ID, item.Kind+" "+item.Number, meta)
	return item, nil
}

// Update modifies a record; a replacement document is unlinked only after
// the database update commits. Kind is immutable.
func (service *Service) Update(context context.Context, id int64, input Input, document upload.Attachment, meta audit.Meta) (*Record, error) {
	if err := input.validate(false); err != nil {
		return nil, err
	}

	item, err := service.repository.GetByID(context, id, false)
	if err != nil {
		return nil, err
	}

	publishDate, _ := time.ParseInLocation(validate.DateLayout, input.PublishDate, service.location)
	item.Number = input.Number
	item.Title = input.Title
	item.Slug = slug.From(input.Title)
	item.CategoryID = input.CategoryID
	item.PublishDate = publishDate
	item.ShortBody = input.ShortBody
	item.Vizibil = input.Vizibil

	var obsolete string
	if document.Present() {
		path, err := service.uploads.Save(document.File, document.Header, service.documentPolicy, storageSubdir)
		if err != nil {
			return nil, err
		}
		if item.DocumentFile != nil {
			obsolete = *item.DocumentFile
		}
		item.DocumentFile = pointer.To(path)

		if err := service.repository.Update(context, item); err != nil {
			service.discard(path)
			return nil, err
		}
		service.discard(obsolete)
	} else if err := service.repository.Update(context, item); err != nil {
		return nil, err
	}

	service.auditor.Record(context, audit.ActionUpdate, "record", item.ID, item.Kind+" "+item.Number, meta)
	return item, nil
}

// Delete removes a record, then its document file.
func (service *Service) Delete(context context.Context, id int64, meta audit.Meta) error {
	item, err := service.repository.GetByID(context, id, false)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	if item.DocumentFile != nil {
		service.discard(*item.DocumentFile)
	}

	service.auditor.Record(context, audit.ActionDelete, "record", id, item.Kind+" "+item.Number, meta)
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
