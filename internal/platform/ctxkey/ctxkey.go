// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

// Package ctxkey defines the typed keys for per-request context values:
// the correlation ID, the request-scoped logger, and the authenticated
// staff principal.
package ctxkey

// key is unexported so no other package can construct a colliding key:
// context lookups match on the type as well as the value.
type key string

const (
	// KeyRequestID carries the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyPrincipal carries the authenticated [sec.Principal], absent on
	// anonymous requests.
	KeyPrincipal key = "principal"

	// KeyLogger carries the per-request [*log/slog.Logger].
	KeyLogger key = "logger"

	// KeyPrincipalRelay carries the mutable cell the access logger reads
	// the principal from after the handler chain returns.
	KeyPrincipalRelay key = "principal_relay"
)
