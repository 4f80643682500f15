// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/dmunteanu/primaria/internal/platform/ctxkey"
	"github.com/dmunteanu/primaria/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// principalRelay is a mutable cell shared between the access-log middleware
// and the authentication middleware that runs deeper in the chain. Context
// values only flow downward; the relay lets the principal flow back up so
// the final log line can carry the actor.
type principalRelay struct {
	principal *sec.Principal
}

// WithPrincipalRelay installs an empty relay. The access logger calls this
// before handing off, then reads via [RelayedPrincipal] once the chain
// returns.
func WithPrincipalRelay(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxkey.KeyPrincipalRelay, &principalRelay{})
}

// RelayedPrincipal returns the principal recorded since the relay was
// installed, or nil for anonymous requests.
func RelayedPrincipal(ctx context.Context) *sec.Principal {
	relay, ok := ctx.Value(ctxkey.KeyPrincipalRelay).(*principalRelay)
	if !ok {
		return nil
	}
	return relay.principal
}

// WithPrincipal returns a new context with the authenticated staff principal
// attached, and records it in the enclosing relay when one is installed.
func WithPrincipal(ctx context.Context, principal *sec.Principal) context.Context {
	if relay, ok := ctx.Value(ctxkey.KeyPrincipalRelay).(*principalRelay); ok {
		relay.principal = principal
	}
	return context.WithValue(ctx, ctxkey.KeyPrincipal, principal)
}

// GetPrincipal retrieves the [*sec.Principal] from the [context.Context].
// Returns nil for anonymous requests.
func GetPrincipal(ctx context.Context) *sec.Principal {
	principal, ok := ctx.Value(ctxkey.KeyPrincipal).(*sec.Principal)
	if !ok {
		return nil
	}
	return principal
}
