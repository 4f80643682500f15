// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/constants"
	"github.com/dmunteanu/primaria/internal/platform/sec"
)

// seedSession plants a session with the given timestamps directly in the
// store, sidestepping Establish so tests can age a session at will.
func seedSession(t *testing.T, store SessionStore, ip string, lastSeen, rotated time.Time) *Session {
	t.Helper()

	session := &Session{
		ID:         "11a3b5f8c2d4e6a8b1c3d5e7f9a1b3c5d7e9f1a3b5c7d9e1f3a5b7c9d1e3f5a7",
		UserID:     1,
		Username:   "secretar",
		FullName:   "Secretar General",
		Role:       sec.RoleEditor,
		IPAddress:  ip,
		CreatedAt:  lastSeen.Add(-time.Minute),
		LastSeenAt: lastSeen,
		RotatedAt:  rotated,
	}
	require.NoError(t, store.Save(context.Background(), session, time.Hour))
	return session
}

func TestAuthenticateRefreshesActiveSession(t *testing.T) {
	store := NewMemorySessionStore()
	manager := NewSessionManager(store, false, http.SameSiteLaxMode)
	now := time.Now()

	session := seedSession(t, store, "192.0.2.10", now.Add(-5*time.Minute), now)

	principal, rotated, err := manager.Authenticate(context.Background(), session.ID, "192.0.2.10")
	require.NoError(t, err)
	assert.Nil(t, rotated, "identifier must not rotate before the interval elapses")
	assert.Equal(t, session.ID, principal.SessionID)
	assert.Equal(t, int64(1), principal.UserID)
}

func TestAuthenticateExpiresIdleSession(t *testing.T) {
	store := NewMemorySessionStore()
	manager := NewSessionManager(store, false, http.SameSiteLaxMode)
	now := time.Now()

	session := seedSession(t, store, "192.0.2.10", now.Add(-31*time.Minute), now.Add(-31*time.Minute))

	_, _, err := manager.Authenticate(context.Background(), session.ID, "192.0.2.10")
	require.True(t, apperr.Is(err, "SESSION_EXPIRED"))

	// The session must be gone server-side, not merely rejected.
	_, findErr := store.Find(context.Background(), session.ID)
	assert.Error(t, findErr)
}

func TestAuthenticateRejectsForeignAddress(t *testing.T) {
	store := NewMemorySessionStore()
	manager := NewSessionManager(store, false, http.SameSiteLaxMode)
	now := time.Now()

	session := seedSession(t, store, "192.0.2.10", now, now)

	_, _, err := manager.Authenticate(context.Background(), session.ID, "198.51.100.7")
	require.True(t, apperr.Is(err, "SECURITY_VIOLATION"))

	// A hijack attempt burns the session for the legitimate holder too.
	_, _, err = manager.Authenticate(context.Background(), session.ID, "192.0.2.10")
	assert.True(t, apperr.Is(err, "SESSION_EXPIRED"))
}

func TestAuthenticateRotatesStaleIdentifier(t *testing.T) {
	store := NewMemorySessionStore()
	manager := NewSessionManager(store, false, http.SameSiteLaxMode)
	now := time.Now()

	session := seedSession(t, store, "192.0.2.10", now.Add(-time.Minute), now.Add(-16*time.Minute))

	principal, rotated, err := manager.Authenticate(context.Background(), session.ID, "192.0.2.10")
	require.NoError(t, err)
	require.NotNil(t, rotated, "identifier must rotate after the interval")
	assert.NotEqual(t, session.ID, rotated.Value)
	assert.Equal(t, rotated.Value, principal.SessionID)

	// Old identifier is dead, the new one authenticates.
	_, _, err = manager.Authenticate(context.Background(), session.ID, "192.0.2.10")
	assert.Error(t, err)

	_, _, err = manager.Authenticate(context.Background(), rotated.Value, "192.0.2.10")
	assert.NoError(t, err)
}

func TestEstablishRememberMeCookieIsPersistent(t *testing.T) {
	manager := NewSessionManager(NewMemorySessionStore(), true, http.SameSiteStrictMode)
	user := &User{ID: 1, Username: "secretar", Role: sec.RoleEditor, IsActive: true}

	_, plain, err := manager.Establish(context.Background(), user, "192.0.2.10", false)
	require.NoError(t, err)
	assert.Zero(t, plain.MaxAge, "plain login rides on a browser-session cookie")

	_, remembered, err := manager.Establish(context.Background(), user, "192.0.2.10", true)
	require.NoError(t, err)
	assert.Positive(t, remembered.MaxAge)
	assert.True(t, remembered.Secure)
}

// # CSRF Token Store Tests

func TestCsrfTokenIsSingleUse(t *testing.T) {
	store := NewMemoryTokenStore()

	token, err := store.Issue(context.Background(), "scope-a")
	require.NoError(t, err)

	require.NoError(t, store.Validate(context.Background(), "scope-a", token))

	// Replay fails; the first redemption consumed the token.
	err = store.Validate(context.Background(), "scope-a", token)
	assert.True(t, apperr.Is(err, "CSRF_EXPIRED"))
}

func TestCsrfTokenIsScopeBound(t *testing.T) {
	store := NewMemoryTokenStore()

	token, err := store.Issue(context.Background(), "scope-a")
	require.NoError(t, err)

	err = store.Validate(context.Background(), "scope-b", token)
	assert.True(t, apperr.Is(err, "CSRF_MISMATCH"))
}

func TestCsrfUnknownTokenExpired(t *testing.T) {
	store := NewMemoryTokenStore()

	err := store.Validate(context.Background(), "scope-a", "deadbeef")
	assert.True(t, apperr.Is(err, "CSRF_EXPIRED"))
}

func TestCsrfIssueSweepsExpiredPastThreshold(t *testing.T) {
	store := NewMemoryTokenStore()

	// Fill the store past the sweep threshold with already-expired entries.
	for i := 0; i < constants.CsrfSweepThreshold; i++ {
		store.tokens[fmt.Sprintf("stale-%d", i)] = memoryToken{
			scope:     "scope-a",
			expiresAt: time.Now().Add(-time.Minute),
		}
	}

	_, err := store.Issue(context.Background(), "scope-a")
	require.NoError(t, err)

	// Only the freshly issued token survives the sweep.
	assert.Len(t, store.tokens, 1)
}
