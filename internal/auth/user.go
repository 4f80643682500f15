// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

/*
Package auth implements staff identity, cookie sessions, and anti-forgery tokens.

Public visitors never authenticate; this package exists solely for the town
hall staff who maintain the published content. The model is deliberately
old-school: an opaque session identifier in an HttpOnly cookie, resolved
against a server-side store on every request. No claims ever leave the server.

Sessions are pinned to the remote address seen at login. A client whose
egress address changes mid-session (mobile carrier NAT, rotating proxies)
is logged out and must authenticate again; that false positive is an
accepted cost of catching stolen cookies replayed from elsewhere.

Architecture:

  - Service: Orchestrates the login flow (lockout, verification, auditing).
  - SessionManager: Session lifecycle — establish, authenticate, rotate, destroy.
  - UserRepository: Postgres-backed staff accounts with atomic failure counters.
  - SessionStore / TokenStore: Redis in production, in-memory for tests.
*/
package auth

import (
	"time"

	"github.com/dmunteanu/primaria/internal/platform/sec"
)

// # Domain Entities

// User is a staff account. These are provisioned by an administrator; there
// is no self-service registration.
type User struct {
	ID                  int64         `json:"id"`
	Username            string        `json:"username"`
	PasswordHash        string        `json:"-"`
	FullName            string        `json:"full_name"`
	Role                sec.StaffRole `json:"role"`
	IsActive            bool          `json:"is_active"`
	FailedLoginAttempts int           `json:"-"`
	LockoutUntil        *time.Time    `json:"-"`
	LastLoginAt         *time.Time    `json:"last_login_at"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// IsLocked reports whether the account is currently inside a lockout window.
func (user *User) IsLocked(now time.Time) bool {
	return user.LockoutUntil != nil && now.Before(*user.LockoutUntil)
}

// Session is the server-side state a session cookie points at.
//
// The identifier itself is stored hashed; a dump of the session store must
// never yield cookies that authenticate.
type Session struct {
	ID         string        `json:"-"`
	UserID     int64         `json:"user_id"`
	Username   string        `json:"username"`
	FullName   string        `json:"full_name"`
	Role       sec.StaffRole `json:"role"`
	IPAddress  string        `json:"ip_address"`
	RememberMe bool          `json:"remember_me"`
	CreatedAt  time.Time     `json:"created_at"`
	LastSeenAt time.Time     `json:"last_seen_at"`
	RotatedAt  time.Time     `json:"rotated_at"`
}

// Principal projects the session into the identity handlers consume.
func (session *Session) Principal() *sec.Principal {
	return &sec.Principal{
		SessionID: session.ID,
		UserID:    session.UserID,
		Username:  session.Username,
		FullName:  session.FullName,
		Role:      session.Role,
	}
}
