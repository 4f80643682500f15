// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package sec

// # Staff Roles

// StaffRole represents the authorization level granted to a staff account.
type StaffRole string

const (
	// Unrestricted access, including account provisioning and audit review
	RoleAdmin StaffRole = "admin"

	// Can manage all published content (announcements, records, albums, documents)
	RoleEditor StaffRole = "editor"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r StaffRole) AtLeast(target StaffRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r StaffRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleEditor:
		return 20
	default:
		return 0
	}
}
