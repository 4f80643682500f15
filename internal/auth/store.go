// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package auth

import (
	"context"
	"time"
)

// # Storage Contracts

// UserRepository defines persistence for staff accounts.
//
// RecordFailure and RecordSuccess exist as dedicated operations so the
// failure counter can be maintained atomically in SQL; concurrent login
// attempts must not lose increments.
type UserRepository interface {
	FindByID(context context.Context, id int64) (*User, error)
	FindByUsername(context context.Context, username string) (*User, error)

	// RecordFailure increments the failed-attempt counter and, once the
	// threshold is reached, opens a lockout window. It returns the updated
	// counter and the lockout expiry (nil while below the threshold).
	RecordFailure(context context.Context, userID int64, threshold int, lockout time.Duration) (int, *time.Time, error)

	// RecordSuccess clears the failure counter, lifts any lockout, and
	// stamps the last successful login time.
	RecordSuccess(context context.Context, userID int64) error
}

// SessionStore persists server-side session state keyed by the hashed
// session identifier.
type SessionStore interface {
	Save(context context.Context, session *Session, ttl time.Duration) error
	Find(context context.Context, sessionID string) (*Session, error)
	Delete(context context.Context, sessionID string) error
}

// TokenStore issues and redeems single-use anti-forgery tokens bound to a
// scope (session identifier or anonymous scope cookie).
type TokenStore interface {
	Issue(context context.Context, scope string) (string, error)

	// Validate redeems a token. A token validates at most once; replays and
	// cross-scope submissions fail with the corresponding CSRF error.
	Validate(context context.Context, scope string, token string) error
}
