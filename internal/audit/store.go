// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package audit

import "context"

// # Storage Contract

// Repository persists audit entries. Entries are append-only: there is no
// update or delete path by design of the schema, only here.
type Repository interface {
	Append(context context.Context, entry *Entry) error
	List(context context.Context, filter ListFilter) ([]Entry, error)
}

// ListFilter narrows the admin audit listing.
//
// A zero filter returns the most recent entries up to Limit.
type ListFilter struct {
	ActorID    *int64
	EntityType string
	Limit      int
	Offset     int
}
