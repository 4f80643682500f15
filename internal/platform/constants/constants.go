// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: Session lifecycle windows, lockout thresholds, cookie names.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "primaria-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Generous enough for multipart document uploads over slow municipal links.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Sessions & Authentication

const (
	// SessionCookieName is the cookie carrying the opaque session identifier.
	SessionCookieName = "primaria_session"

	// SessionTokenLength is the byte length of the random session identifier.
	SessionTokenLength = 32

	// SessionInactivityTimeout invalidates sessions idle longer than this.
	SessionInactivityTimeout = 30 * time.Minute

	// SessionRotationInterval forces a fresh session identifier while the
	// session contents are preserved. Limits the blast radius of a leaked ID.
	SessionRotationInterval = 15 * time.Minute

	// SessionRememberMeTTL is the cookie expiry horizon for "remember me" logins.
	SessionRememberMeTTL = 30 * 24 * time.Hour

	// MaxLoginAttempts is the failed-attempt threshold before lockout.
	MaxLoginAttempts = 5

	// LockoutDuration is how long an account stays locked after too many failures.
	LockoutDuration = 15 * time.Minute
)

// # CSRF Protection

const (
	// CsrfTokenTTL is the validity window of an anti-forgery token.
	CsrfTokenTTL = 1 * time.Hour

	// CsrfTokenLength is the byte length of the random token (32 bytes = 256 bits).
	CsrfTokenLength = 32

	// CsrfHeaderName is the request header carrying the token on mutations.
	CsrfHeaderName = "X-CSRF-Token"

	// CsrfFormField is the multipart/form field fallback for the token.
	CsrfFormField = "csrf_token"

	// CsrfScopeCookieName identifies anonymous clients for pre-login tokens
	// (the login form itself is CSRF-guarded before any session exists).
	CsrfScopeCookieName = "primaria_csrf_scope"

	// CsrfSweepThreshold triggers an opportunistic sweep of expired tokens
	// once the in-memory store grows past this many entries.
	CsrfSweepThreshold = 1000
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
)

// # Database Schemas

const (
	SchemaContent = "content"
	SchemaGallery = "gallery"
	SchemaUsers   = "users"
	SchemaSystem  = "system"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession   = "auth:session:"
	RedisPrefixCsrfToken = "auth:csrf:"
)
