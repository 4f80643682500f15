// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

/*
Package gallery implements photo albums for town events.

An album owns its photos. The cover invariant is enforced here: an album's
cover is either one of its own photos or nothing, and deleting the cover
photo reassigns the cover to another photo (or clears it) in the same
operation. Deleting an album cascades over its photos: files first, then
rows, then the album itself.

Architecture:

  - Service: Cover invariant, cascade delete, photo upload orchestration.
  - Repository: Postgres store for albums and photos.
  - Handler: Public browsing plus the admin management surface.
*/
package gallery

import "time"

// # Domain Entities

// Album is a titled collection of photos.
type Album struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	CategoryID   *int64    `json:"category_id"`
	CoverPhotoID *int64    `json:"cover_photo_id"`
	Vizibil      bool      `json:"vizibil"`
	CreatedBy    *int64    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Photos is populated on single-album reads.
	Photos []Photo `json:"photos,omitempty"`
}

// Photo is one image in an album. Rank orders photos within the album.
type Photo struct {
	ID        int64     `json:"id"`
	AlbumID   int64     `json:"album_id"`
	Filename  string    `json:"filename"`
	Rank      int       `json:"rank"`
	CreatedAt time.Time `json:"created_at"`
}
