// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

/*
Package audit implements the append-only trail of state-changing actions.

Every create/update/delete on content, every login attempt (successful or
not), every logout, and every lockout event lands here. Entries are immutable
once written and record just enough detail to reconstruct who did what —
never full record payloads, to bound log size and avoid duplicating content.

# Architecture

  - Entry: The immutable domain value.
  - Service: Thin recording facade injected into every mutating service.
  - Repository: Postgres-backed append/list storage.
*/
package audit

import (
	"net/http"
	"time"

	"github.com/dmunteanu/primaria/internal/platform/ctxutil"
	requestutil "github.com/dmunteanu/primaria/internal/platform/request"
)

// # Domain Entities

// Entry is a single immutable audit record.
//
// ActorID is nil for anonymous actions (e.g. failed logins for unknown users).
type Entry struct {
	ID         int64     `json:"id"`
	ActorID    *int64    `json:"actor_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	Detail     string    `json:"detail"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}

// # Action Kinds

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ActionLoginSuccess = "login_success"
	ActionLoginFailure = "login_failure"
	ActionLogout       = "logout"
	ActionLockout      = "lockout"
)

// Meta carries the request-scoped attribution for an audit entry.
type Meta struct {
	ActorID   *int64
	IPAddress string
	UserAgent string
}

// MetaFromRequest builds attribution metadata from the incoming request.
//
// The actor is taken from the authenticated principal when present.
func MetaFromRequest(request *http.Request) Meta {
	meta := Meta{
		IPAddress: requestutil.RealIP(request),
		UserAgent: request.UserAgent(),
	}

	if principal := ctxutil.GetPrincipal(request.Context()); principal != nil {
		actorID := principal.UserID
		meta.ActorID = &actorID
	}

	return meta
}
