// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package gallery

import "context"

// Repository defines persistence for albums and their photos.
type Repository interface {
	ListAlbums(context context.Context, visibleOnly bool, limit, offset int) ([]Album, int, error)
	GetAlbum(context context.Context, id int64, visibleOnly bool) (*Album, error)
	CreateAlbum(context context.Context, album *Album) error
	UpdateAlbum(context context.Context, album *Album) error
	DeleteAlbum(context context.Context, id int64) error

	ListPhotos(context context.Context, albumID int64) ([]Photo, error)
	GetPhoto(context context.Context, id int64) (*Photo, error)

	// AddPhoto appends the photo at the end of the album's rank order.
	AddPhoto(context context.Context, photo *Photo) error
	DeletePhoto(context context.Context, id int64) error
	DeletePhotosByAlbum(context context.Context, albumID int64) error

	// SetCover updates the album's cover reference; nil clears it.
	SetCover(context context.Context, albumID int64, photoID *int64) error

	// NextCoverCandidate returns the id of the first photo in the album by
	// rank, excluding the given photo. Nil when the album has no other photo.
	NextCoverCandidate(context context.Context, albumID int64, excludePhotoID int64) (*int64, error)
}
