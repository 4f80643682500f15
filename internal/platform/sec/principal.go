// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

// Package sec provides cryptographic primitives and the request identity type.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, random token
// generation, constant-time comparison) from the domain logic. It also defines
// [Principal], the lightweight identity carried through request contexts, so
// that middleware and handlers never need to import the session domain.
package sec

// Principal is the authenticated identity attached to a request context.
//
// It is a projection of the server-side session — just enough for handlers
// to authorize and attribute actions without another store round trip.
type Principal struct {
	SessionID string    `json:"-"` // Never serialized; the cookie is the only carrier.
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      StaffRole `json:"role"`
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
