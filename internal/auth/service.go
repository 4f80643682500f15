// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/dmunteanu/primaria/internal/audit"
	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/constants"
	"github.com/dmunteanu/primaria/internal/platform/sec"
)

// # Auth Service

// Service implements the staff login and logout use cases.
//
// # Review Process
//
// This service gates every admin capability. Changes to the lockout logic or
// the credential checks need a second pair of eyes before merging.
type Service struct {
	users    UserRepository
	sessions *SessionManager
	auditor  audit.Recorder
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(users UserRepository, sessions *SessionManager, auditor audit.Recorder) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		auditor:  auditor,
	}
}

// # Login Flow

// LoginInput holds the submitted login form.
type LoginInput struct {
	Username   string
	Password   string
	RememberMe bool
}

/*
Login verifies credentials and establishes a session.

Description: Unknown usernames and wrong passwords produce the identical
BAD_CREDENTIALS response, so the login form cannot be used to enumerate staff
accounts. Lockout state is checked before the password so a locked account
leaks nothing about whether the submitted password was right. Every attempt,
good or bad, lands in the audit trail.

Parameters:
  - context: context.Context
  - input: LoginInput
  - remoteIP: Client address, recorded as the session fingerprint
  - meta: Audit attribution for this request

Returns:
  - *sec.Principal: Identity of the established session
  - *http.Cookie: Session cookie to set
  - error: BAD_CREDENTIALS, ACCOUNT_LOCKED, ACCOUNT_INACTIVE, or storage errors
*/
func (service *Service) Login(context context.Context, input LoginInput, remoteIP string, meta audit.Meta) (*sec.Principal, *http.Cookie, error) {

	// ── 1. Account Lookup ─────────────────────────────────────────────────
	user, err := service.users.FindByUsername(context, input.Username)
	if err != nil {
		if apperr.Is(err, "NOT_FOUND") {
			service.auditor.Record(context, audit.ActionLoginFailure, "user", 0, "unknown username: "+input.Username, meta)
			return nil, nil, apperr.BadCredentials()
		}
		return nil, nil, err
	}

	now := time.Now()

	// ── 2. Lockout & Activity Gates ───────────────────────────────────────
	if user.IsLocked(now) {
		service.auditor.Record(context, audit.ActionLoginFailure, "user", user.ID, "attempt while locked", meta)
		return nil, nil, apperr.AccountLocked(minutesUntil(*user.LockoutUntil, now))
	}
	if !user.IsActive {
		service.auditor.Record(context, audit.ActionLoginFailure, "user", user.ID, "attempt on inactive account", meta)
		return nil, nil, apperr.AccountInactive()
	}

	// ── 3. Credential Check ───────────────────────────────────────────────
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		attempts, lockedUntil, err := service.users.RecordFailure(context, user.ID, constants.MaxLoginAttempts, constants.LockoutDuration)
		if err != nil {
			return nil, nil, err
		}

		service.auditor.Record(context, audit.ActionLoginFailure, "user", user.ID,
			fmt.Sprintf("wrong password (attempt %d)", attempts), meta)

		if lockedUntil != nil {
			service.auditor.Record(context, audit.ActionLockout, "user", user.ID, "lockout opened", meta)
			return nil, nil, apperr.AccountLocked(minutesUntil(*lockedUntil, now))
		}

		return nil, nil, apperr.BadCredentials()
	}

	// ── 4. Session Establishment ──────────────────────────────────────────
	if err := service.users.RecordSuccess(context, user.ID); err != nil {
		return nil, nil, err
	}

	principal, cookie, err := service.sessions.Establish(context, user, remoteIP, input.RememberMe)
	if err != nil {
		return nil, nil, err
	}

	actorID := user.ID
	meta.ActorID = &actorID
	service.auditor.Record(context, audit.ActionLoginSuccess, "user", user.ID, "login", meta)

	return principal, cookie, nil
}

/*
Logout destroys the caller's session.

Parameters:
  - context: context.Context
  - principal: The authenticated caller
  - meta: Audit attribution

Returns:
  - *http.Cookie: Expired cookie clearing the client-side reference
  - error: Storage errors
*/
func (service *Service) Logout(context context.Context, principal *sec.Principal, meta audit.Meta) (*http.Cookie, error) {
	expired, err := service.sessions.Destroy(context, principal.SessionID)
	if err != nil {
		return nil, err
	}

	service.auditor.Record(context, audit.ActionLogout, "user", principal.UserID, "logout", meta)

	return expired, nil
}

// minutesUntil reports the whole minutes left until the deadline, rounded up
// so the client never retries early.
func minutesUntil(deadline time.Time, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Minutes()))
}
