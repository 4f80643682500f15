// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package audit

import (
	"context"
	"log/slog"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
)

// # Recording Contract

// Recorder is the write side of the audit trail. Mutating services depend on
// this interface rather than the full Service.
type Recorder interface {
	Record(context context.Context, action string, entityType string, entityID int64, detail string, meta Meta)
}

// # Audit Service

// Service records and lists audit entries.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService creates the audit service.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger.With(slog.String("component", "audit")),
	}
}

/*
Record appends an audit entry for a completed action.

Description: The trail must never break the action it describes, so storage
failures are logged and swallowed rather than returned. Callers invoke Record
only after the underlying mutation has succeeded.

Parameters:
  - context: context.Context
  - action: One of the Action* constants
  - entityType: Domain entity name (e.g. "announcement")
  - entityID: Primary key of the affected entity (0 when none applies)
  - detail: Short human-readable summary, never a full payload
  - meta: Request attribution (actor, IP, user agent)
*/
func (service *Service) Record(context context.Context, action string, entityType string, entityID int64, detail string, meta Meta) {
	entry := &Entry{
		ActorID:    meta.ActorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	}

	if err := service.repository.Append(context, entry); err != nil {
		service.logger.Error("audit append failed",
			slog.String("action", action),
			slog.String("entity_type", entityType),
			slog.Int64("entity_id", entityID),
			slog.Any("error", err),
		)
	}
}

/*
List returns audit entries for the admin trail view.

Description: The limit is clamped to [1, 200] so a careless client cannot pull
the whole table in one request.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []Entry: Matching entries, newest first
  - error: Storage errors
*/
func (service *Service) List(context context.Context, filter ListFilter) ([]Entry, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		return nil, apperr.ValidationError("Offset must not be negative")
	}

	return service.repository.List(context, filter)
}
