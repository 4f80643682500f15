// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmunteanu/primaria/internal/audit"
	"github.com/dmunteanu/primaria/internal/platform/constants"
	"github.com/dmunteanu/primaria/internal/platform/middleware"
	requestutil "github.com/dmunteanu/primaria/internal/platform/request"
	"github.com/dmunteanu/primaria/internal/platform/respond"
	"github.com/dmunteanu/primaria/internal/platform/sec"
	"github.com/dmunteanu/primaria/internal/platform/validate"
)

// newAnonymousScope mints the value for the anonymous CSRF scope cookie.
// 16 bytes is plenty; the scope only needs to be unguessable per client.
func newAnonymousScope() (string, error) {
	return sec.GenerateSecureToken(16)
}

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
//
// # Scope
//
// Session lifecycle only: login, logout, the anti-forgery token faucet, and
// the login-state probe. Staff account management lives elsewhere.
type Handler struct {
	authService  *Service
	tokens       TokenStore
	cookieSecure bool
	sameSite     http.SameSite
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, tokens TokenStore, cookieSecure bool, sameSite http.SameSite) *Handler {
	return &Handler{
		authService:  service,
		tokens:       tokens,
		cookieSecure: cookieSecure,
		sameSite:     sameSite,
	}
}

// Routes returns a [chi.Router] configured with the authentication routes.
//
// # Endpoints
//   - GET  /csrf   : Issues an anti-forgery token (pre- or post-login).
//   - POST /login  : Verifies credentials, establishes a session. CSRF-guarded.
//   - POST /logout : Destroys the caller's session. Session + CSRF guarded.
//   - GET  /status : Returns the authenticated principal.
func (handler *Handler) Routes(requireSession, csrfGuard func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/csrf", handler.csrf)
	router.With(csrfGuard).Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(requireSession)
		r.With(csrfGuard).Post("/logout", handler.logout)
		r.Get("/status", handler.status)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// # Handlers

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	payload := loginRequest{}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("username", payload.Username).
		MaxLen("username", payload.Username, 100).
		Required("password", payload.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := LoginInput{
		Username:   payload.Username,
		Password:   payload.Password,
		RememberMe: payload.RememberMe,
	}

	principal, cookie, err := handler.authService.Login(
		request.Context(), input, requestutil.RealIP(request), audit.MetaFromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, cookie)
	respond.OK(writer, principal)
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	expired, err := handler.authService.Logout(request.Context(), principal, audit.MetaFromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, expired)
	respond.NoContent(writer)
}

func (handler *Handler) status(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, principal)
}

// csrf issues an anti-forgery token for the caller's scope. Anonymous callers
// (the login form) additionally receive the scope cookie that the token is
// bound to.
func (handler *Handler) csrf(writer http.ResponseWriter, request *http.Request) {
	scope := middleware.CsrfScope(request)

	if scope == "" {
		anonymous, err := newAnonymousScope()
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		scope = anonymous

		http.SetCookie(writer, &http.Cookie{
			Name:     constants.CsrfScopeCookieName,
			Value:    scope,
			Path:     "/",
			MaxAge:   int(constants.CsrfTokenTTL.Seconds()),
			HttpOnly: true,
			Secure:   handler.cookieSecure,
			SameSite: handler.sameSite,
		})
	}

	token, err := handler.tokens.Issue(request.Context(), scope)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"csrf_token": token})
}
