// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmunteanu/primaria/internal/platform/constants"
	"github.com/dmunteanu/primaria/internal/platform/ctxutil"
	"github.com/dmunteanu/primaria/internal/platform/sec"
)

// fakeAuthenticator resolves every session identifier to a fixed principal.
type fakeAuthenticator struct {
	principal *sec.Principal
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, sessionID, _ string) (*sec.Principal, *http.Cookie, error) {
	principal := *f.principal
	principal.SessionID = sessionID
	return &principal, nil, nil
}

// fakeAppConfig satisfies [AppConfig] without parsing an environment.
type fakeAppConfig struct {
	development  bool
	extraOrigins []string
}

func (f *fakeAppConfig) IsDevelopment() bool           { return f.development }
func (f *fakeAppConfig) ExtraAllowedOrigins() []string { return f.extraOrigins }

// # Activity Logging

func TestStructuredLoggerRecordsActorFromSessionMiddleware(t *testing.T) {
	// The authentication middleware runs in a child context the logger
	// never sees directly; the actor has to travel back through the relay.
	var logBuffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logBuffer, nil))

	authenticator := &fakeAuthenticator{principal: &sec.Principal{
		UserID:   7,
		Username: "secretar",
		Role:     sec.RoleEditor,
	}}

	handler := StructuredLogger(logger)(RequireSession(authenticator)(
		http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		}),
	))

	request := httptest.NewRequest(http.MethodGet, "/admin/anunturi", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "session-under-test"})
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusNoContent, recorder.Code)
	logLine := logBuffer.String()
	assert.Contains(t, logLine, `"msg":"http_request_finished"`)
	assert.Contains(t, logLine, `"user_id":7`)
}

func TestStructuredLoggerOmitsActorForAnonymousRequests(t *testing.T) {
	var logBuffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logBuffer, nil))

	handler := StructuredLogger(logger)(
		http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}),
	)

	request := httptest.NewRequest(http.MethodGet, "/api/anunturi", nil)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Contains(t, logBuffer.String(), `"msg":"http_request_finished"`)
	assert.NotContains(t, logBuffer.String(), `"user_id"`)
}

// # Anti-Forgery Scope

func TestCsrfScopeReadsSessionCookieAsPresented(t *testing.T) {
	// A mutation can itself trigger identifier rotation, leaving the
	// context principal with the fresh identifier while the request still
	// carries the one the token was minted under. The scope must follow
	// the cookie, not the principal, or the token would never validate.
	request := httptest.NewRequest(http.MethodPost, "/admin/anunturi", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "pre-rotation-session"})

	rotatedPrincipal := &sec.Principal{SessionID: "post-rotation-session", UserID: 7}
	request = request.WithContext(ctxutil.WithPrincipal(request.Context(), rotatedPrincipal))

	assert.Equal(t, "pre-rotation-session", CsrfScope(request))
}

func TestCsrfScopeFallsBackToAnonymousCookie(t *testing.T) {
	request := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	request.AddCookie(&http.Cookie{Name: constants.CsrfScopeCookieName, Value: "anonymous-visitor"})

	assert.Equal(t, "anonymous-visitor", CsrfScope(request))
}

func TestCsrfScopeEmptyWithoutCookies(t *testing.T) {
	request := httptest.NewRequest(http.MethodPost, "/auth/login", nil)

	assert.Equal(t, "", CsrfScope(request))
}

// # Cross-Origin Resource Sharing

func TestOriginAllowedHonorsConfiguredExtraOrigins(t *testing.T) {
	cfg := &fakeAppConfig{
		development:  false,
		extraOrigins: []string{"https://portal.cj-cluj.ro"},
	}

	testCases := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"town hall subdomain", "https://admin.primaria.ro", true},
		{"configured extra origin", "https://portal.cj-cluj.ro", true},
		{"unknown origin", "https://evil.example.com", false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.allowed, originAllowed(cfg, testCase.origin))
		})
	}
}

func TestCORSReflectsExtraOriginWithCredentials(t *testing.T) {
	cfg := &fakeAppConfig{extraOrigins: []string{"https://portal.cj-cluj.ro"}}

	handler := CORS(cfg)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/api/anunturi", nil)
	request.Header.Set(constants.HeaderOrigin, "https://portal.cj-cluj.ro")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "https://portal.cj-cluj.ro", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
}
