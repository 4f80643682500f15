// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

/*
Package announcement implements the town hall's public announcements.

An announcement is the richest content item: body text, a teaser, an optional
attached document (the official act) and an optional illustration image. The
public site reads only visible items, newest publish date first; the admin
panel has full lifecycle control with file replacement semantics.

Architecture:

  - Service: Validation, upload orchestration, the file replacement rule.
  - Repository: Postgres store with atomic view counting.
  - Handler: Public read endpoints plus the admin CRUD surface.
*/
package announcement

import "time"

// # Domain Entities

// Announcement is a single published announcement.
//
// DocumentFile and ImageFile hold storage-relative paths; nil means no
// attachment. Views counts public single-item reads.
type Announcement struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	CategoryID   *int64    `json:"category_id"`
	PublishDate  time.Time `json:"publish_date"`
	Body         string    `json:"body"`
	ShortBody    string    `json:"short_body"`
	DocumentFile *string   `json:"document_file"`
	ImageFile    *string   `json:"image_file"`
	Vizibil      bool      `json:"vizibil"`
	Priority     int       `json:"priority"`
	Views        int64     `json:"views"`
	CreatedBy    *int64    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filter narrows announcement listings.
type Filter struct {
	CategoryID *int64

	// VisibleOnly restricts results to vizibil items; always set on the
	// public surface, never on the admin one.
	VisibleOnly bool
}
