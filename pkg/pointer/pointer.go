// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

// Package pointer removes the var-then-address dance around optional
// struct fields.
package pointer

// To returns a pointer to v. Handy for filling nullable columns from
// literals, e.g. pointer.To(path).
func To[T any](v T) *T {
	return &v
}
