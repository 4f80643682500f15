// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/constants"
	"github.com/dmunteanu/primaria/internal/platform/sec"
)

// # Session Manager

// SessionManager owns the full session lifecycle: establishing on login,
// validating and rotating on every request, destroying on logout.
//
// # Lifetime Rules
//
//   - Plain sessions expire after [constants.SessionInactivityTimeout] of
//     silence; every authenticated request pushes the window forward.
//   - Remember-me sessions live for a fixed [constants.SessionRememberMeTTL]
//     from creation and are exempt from the inactivity rule.
//   - Identifiers are rotated every [constants.SessionRotationInterval] while
//     the session state is preserved.
type SessionManager struct {
	sessions     SessionStore
	cookieSecure bool
	sameSite     http.SameSite
}

// NewSessionManager constructs a [SessionManager].
func NewSessionManager(sessions SessionStore, cookieSecure bool, sameSite http.SameSite) *SessionManager {
	return &SessionManager{
		sessions:     sessions,
		cookieSecure: cookieSecure,
		sameSite:     sameSite,
	}
}

/*
Establish creates a fresh session for a verified staff login.

Parameters:
  - context: context.Context
  - user: The verified staff account
  - remoteIP: Client address captured as the session fingerprint
  - rememberMe: Extends the session to the long-lived fixed horizon

Returns:
  - *sec.Principal: Identity of the new session
  - *http.Cookie: Cookie to send to the client
  - error: Token generation or storage failures
*/
func (manager *SessionManager) Establish(context context.Context, user *User, remoteIP string, rememberMe bool) (*sec.Principal, *http.Cookie, error) {
	sessionID, err := sec.GenerateSecureToken(constants.SessionTokenLength)
	if err != nil {
		return nil, nil, fmt.Errorf("session_establish_token_failed: %w", err)
	}

	now := time.Now()
	session := &Session{
		ID:         sessionID,
		UserID:     user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		Role:       user.Role,
		IPAddress:  remoteIP,
		RememberMe: rememberMe,
		CreatedAt:  now,
		LastSeenAt: now,
		RotatedAt:  now,
	}

	if err := manager.sessions.Save(context, session, manager.ttl(session, now)); err != nil {
		return nil, nil, fmt.Errorf("session_establish_save_failed: %w", err)
	}

	return session.Principal(), manager.cookie(session), nil
}

/*
Authenticate resolves a session cookie value into a principal.

Description: Enforces the inactivity window, the remember-me horizon, and the
remote-address fingerprint, then rotates the identifier when it is due. Any
violation destroys the session server-side so the cookie can never be retried.

Parameters:
  - context: context.Context
  - sessionID: Opaque identifier from the session cookie
  - remoteIP: Client address of the current request

Returns:
  - *sec.Principal: Resolved identity
  - *http.Cookie: Replacement cookie when the identifier was rotated, else nil
  - error: apperr.SessionExpired or apperr.SecurityViolation
*/
func (manager *SessionManager) Authenticate(context context.Context, sessionID string, remoteIP string) (*sec.Principal, *http.Cookie, error) {
	session, err := manager.sessions.Find(context, sessionID)
	if err != nil {
		return nil, nil, apperr.SessionExpired()
	}

	now := time.Now()

	// ── 1. Lifetime Checks ────────────────────────────────────────────────
	if session.RememberMe {
		if now.Sub(session.CreatedAt) > constants.SessionRememberMeTTL {
			_ = manager.sessions.Delete(context, sessionID)
			return nil, nil, apperr.SessionExpired()
		}
	} else if now.Sub(session.LastSeenAt) > constants.SessionInactivityTimeout {
		_ = manager.sessions.Delete(context, sessionID)
		return nil, nil, apperr.SessionExpired()
	}

	// ── 2. Fingerprint Check ──────────────────────────────────────────────
	// A session presented from a different address is treated as stolen.
	// Clients behind carrier NAT or rotating proxies will trip this and
	// have to log in again; see the package doc.
	if session.IPAddress != remoteIP {
		_ = manager.sessions.Delete(context, sessionID)
		return nil, nil, apperr.SecurityViolation()
	}

	// ── 3. Identifier Rotation ────────────────────────────────────────────
	session.LastSeenAt = now
	if now.Sub(session.RotatedAt) >= constants.SessionRotationInterval {
		freshID, err := sec.GenerateSecureToken(constants.SessionTokenLength)
		if err != nil {
			return nil, nil, fmt.Errorf("session_rotate_token_failed: %w", err)
		}

		oldID := session.ID
		session.ID = freshID
		session.RotatedAt = now

		if err := manager.sessions.Save(context, session, manager.ttl(session, now)); err != nil {
			return nil, nil, fmt.Errorf("session_rotate_save_failed: %w", err)
		}
		_ = manager.sessions.Delete(context, oldID)

		return session.Principal(), manager.cookie(session), nil
	}

	// ── 4. Sliding Window Refresh ─────────────────────────────────────────
	if err := manager.sessions.Save(context, session, manager.ttl(session, now)); err != nil {
		return nil, nil, fmt.Errorf("session_refresh_save_failed: %w", err)
	}

	return session.Principal(), nil, nil
}

/*
Destroy removes a session server-side.

Parameters:
  - context: context.Context
  - sessionID: Identifier to destroy

Returns:
  - *http.Cookie: Expired cookie clearing the client-side reference
  - error: Storage failures
*/
func (manager *SessionManager) Destroy(context context.Context, sessionID string) (*http.Cookie, error) {
	if err := manager.sessions.Delete(context, sessionID); err != nil {
		return nil, fmt.Errorf("session_destroy_failed: %w", err)
	}

	expired := &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   manager.cookieSecure,
		SameSite: manager.sameSite,
	}
	return expired, nil
}

// ttl returns the store expiry for a session: the remaining remember-me
// horizon, or the sliding inactivity window.
func (manager *SessionManager) ttl(session *Session, now time.Time) time.Duration {
	if session.RememberMe {
		return constants.SessionRememberMeTTL - now.Sub(session.CreatedAt)
	}
	return constants.SessionInactivityTimeout
}

// cookie builds the session cookie. Remember-me sessions get a persistent
// cookie; plain sessions ride on a browser-session cookie.
func (manager *SessionManager) cookie(session *Session) *http.Cookie {
	cookie := &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   manager.cookieSecure,
		SameSite: manager.sameSite,
	}
	if session.RememberMe {
		cookie.MaxAge = int(constants.SessionRememberMeTTL.Seconds())
	}
	return cookie
}
