// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

// Package category provides the taxonomy shared by all published content.
//
// Categories are partitioned by content kind: an announcement category never
// shows up in the project-documents dropdown.
package category

import "time"

// Content kinds a category can belong to.
const (
	KindAnnouncement = "announcement"
	KindRecord       = "record"
	KindDocument     = "document"
	KindAlbum        = "album"
)

// Kinds lists every valid category kind, for validation.
var Kinds = []string{KindAnnouncement, KindRecord, KindDocument, KindAlbum}

// Category is a named bucket for one kind of content.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Kind      string    `json:"kind"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"-"`
}
