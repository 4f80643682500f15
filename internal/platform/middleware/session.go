// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

// Session authentication, role authorization and CSRF enforcement for
// the staff surface. The shared pieces of the chain live in middleware.go.

package middleware

import (
	"context"
	"net/http"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/constants"
	"github.com/dmunteanu/primaria/internal/platform/ctxutil"
	requestutil "github.com/dmunteanu/primaria/internal/platform/request"
	"github.com/dmunteanu/primaria/internal/platform/respond"
	"github.com/dmunteanu/primaria/internal/platform/sec"
)

// SessionAuthenticator defines the interface needed to validate sessions in middleware.
//
// # Why an interface?
//
// Defining SessionAuthenticator here decouples the middleware from the `auth`
// session manager implementation, allowing us to easily inject fakes during
// unit testing.
//
// Authenticate returns the resolved principal and, when the session identifier
// was rotated during the call, a replacement cookie that must be sent to the
// client. A nil cookie means the existing identifier is still valid.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, sessionID, remoteIP string) (*sec.Principal, *http.Cookie, error)
}

// CsrfValidator defines the interface needed to enforce anti-forgery tokens.
type CsrfValidator interface {
	Validate(ctx context.Context, scope, token string) error
}

// RequireSession blocks requests that do not carry a valid session cookie.
//
// # Flow
//  1. Read the session cookie; missing cookie aborts with NOT_LOGGED_IN.
//  2. Delegate to [SessionAuthenticator] — it enforces the inactivity timeout,
//     the remote-address fingerprint, and periodic identifier rotation.
//  3. On failure, the (already invalidated) cookie is cleared client-side and
//     the auth error is surfaced immediately. Auth failures are never retried.
//  4. On success, inject [*sec.Principal] into the request context and send
//     the rotated cookie if one was issued.
func RequireSession(authenticator SessionAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Cookie Presence ────────────────────────────────────────────
			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				respond.Error(writer, request, apperr.NotLoggedIn())
				return
			}

			// ── 2. Session Validation ─────────────────────────────────────────
			principal, rotated, err := authenticator.Authenticate(request.Context(), cookie.Value, requestutil.RealIP(request))
			if err != nil {
				clearSessionCookie(writer)
				respond.Error(writer, request, err)
				return
			}

			// ── 3. Identifier Rotation ────────────────────────────────────────
			if rotated != nil {
				http.SetCookie(writer, rotated)
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRole blocks requests if the authenticated staffer doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [RequireSession].
func RequireRole(role sec.StaffRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if principal == nil {
				respond.Error(writer, request, apperr.NotLoggedIn())
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !principal.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// CsrfGuard validates the anti-forgery token on every state-changing request.
//
// # Token Transport
//
// The token travels in the X-CSRF-Token header, with the csrf_token form
// field as a fallback for multipart uploads.
//
// # Scope Resolution
//
// Requests carrying a session cookie are scoped to its value. Anonymous
// requests (the login form) are scoped to the csrf_scope cookie issued by
// GET /auth/csrf, so a token minted for one client never validates for
// another. See [CsrfScope] for why the cookie, not the principal, is the
// binding value.
func CsrfGuard(validator CsrfValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// Safe methods are exempt per RFC 7231 semantics.
			switch request.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(writer, request)
				return
			}

			token := request.Header.Get(constants.CsrfHeaderName)
			if token == "" {
				token = request.PostFormValue(constants.CsrfFormField)
			}
			if token == "" {
				respond.Error(writer, request, apperr.CsrfMissing())
				return
			}

			if err := validator.Validate(request.Context(), CsrfScope(request), token); err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// CsrfScope resolves the binding scope for anti-forgery tokens: the session
// cookie when one is present, otherwise the anonymous scope cookie.
//
// The scope is read from the cookie AS THE CLIENT PRESENTED IT, never from
// the authenticated principal. During identifier rotation the principal
// carries the fresh session ID while the request still carries the old one;
// reading the cookie keeps the scope identical between the GET /auth/csrf
// that minted the token and the mutation that redeems it, even when that
// mutation is the request that triggers the rotation.
func CsrfScope(request *http.Request) string {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if cookie, err := request.Cookie(constants.CsrfScopeCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// clearSessionCookie expires the client-side session reference.
func clearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
