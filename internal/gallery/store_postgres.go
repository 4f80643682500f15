// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package gallery

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/dberr"
)

// galleryRepository implements [Repository] using pgx.
type galleryRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed gallery store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &galleryRepository{pool: pool}
}

// # Albums

const albumColumns = `
	id, title, slug, description, categoryid, coverphotoid, vizibil,
	createdby, createdat, updatedat`

func (repository *galleryRepository) ListAlbums(context context.Context, visibleOnly bool, limit, offset int) ([]Album, int, error) {
	query := `
		SELECT ` + albumColumns + `, COUNT(*) OVER() AS total_count
		FROM gallery.album`
	if visibleOnly {
		query += ` WHERE vizibil`
	}
	query += ` ORDER BY createdat DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "album_list")
	}
	defer rows.Close()

	albums := []Album{}
	total := 0
	for rows.Next() {
		album := Album{}
		err := rows.Scan(
			&album.ID, &album.Title, &album.Slug, &album.Description,
			&album.CategoryID, &album.CoverPhotoID, &album.Vizibil,
			&album.CreatedBy, &album.CreatedAt, &album.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "album_list_scan")
		}
		albums = append(albums, album)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "album_list_rows")
	}

	return albums, total, nil
}

func (repository *galleryRepository) GetAlbum(context context.Context, id int64, visibleOnly bool) (*Album, error) {
	query := `SELECT ` + albumColumns + ` FROM gallery.album WHERE id = $1`
	if visibleOnly {
		query += ` AND vizibil`
	}

	album := &Album{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&album.ID, &album.Title, &album.Slug, &album.Description,
		&album.CategoryID, &album.CoverPhotoID, &album.Vizibil,
		&album.CreatedBy, &album.CreatedAt, &album.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Album")
		}
		return nil, dberr.Wrap(err, "album_get")
	}

	return album, nil
}

func (repository *galleryRepository) CreateAlbum(context context.Context, album *Album) error {
	const query = `
		INSERT INTO gallery.album (title, slug, description, categoryid, vizibil, createdby)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, createdat, updatedat`

	err := repository.pool.QueryRow(context, query,
		album.Title, album.Slug, album.Description,
		album.CategoryID, album.Vizibil, album.CreatedBy,
	).Scan(&album.ID, &album.CreatedAt, &album.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "album_create")
	}

	return nil
}

func (repository *galleryRepository) UpdateAlbum(context context.Context, album *Album) error {
	const query = `
		UPDATE gallery.album
		SET title = $2, slug = $3, description = $4, categoryid = $5,
			vizibil = $6, updatedat = now()
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query,
		album.ID, album.Title, album.Slug, album.Description,
		album.CategoryID, album.Vizibil)
	if err != nil {
		return dberr.Wrap(err, "album_update")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Album")
	}

	return nil
}

func (repository *galleryRepository) DeleteAlbum(context context.Context, id int64) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM gallery.album WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "album_delete")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Album")
	}

	return nil
}

// # Photos

func (repository *galleryRepository) ListPhotos(context context.Context, albumID int64) ([]Photo, error) {
	const query = `
		SELECT id, albumid, filename, rank, createdat
		FROM gallery.photo
		WHERE albumid = $1
		ORDER BY rank ASC, id ASC`

	rows, err := repository.pool.Query(context, query, albumID)
	if err != nil {
		return nil, dberr.Wrap(err, "photo_list")
	}
	defer rows.Close()

	photos := []Photo{}
	for rows.Next() {
		photo := Photo{}
		if err := rows.Scan(&photo.ID, &photo.AlbumID, &photo.Filename, &photo.Rank, &photo.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "photo_list_scan")
		}
		photos = append(photos, photo)
	}

	return photos, rows.Err()
}

func (repository *galleryRepository) GetPhoto(context context.Context, id int64) (*Photo, error) {
	const query = `SELECT id, albumid, filename, rank, createdat FROM gallery.photo WHERE id = $1`

	photo := &Photo{}
	err := repository.pool.QueryRow(context, query, id).
		Scan(&photo.ID, &photo.AlbumID, &photo.Filename, &photo.Rank, &photo.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Photo")
		}
		return nil, dberr.Wrap(err, "photo_get")
	}

	return photo, nil
}

func (repository *galleryRepository) AddPhoto(context context.Context, photo *Photo) error {
	// The rank subquery appends at the end of the album, racing inserts
	// resolve on the id tie-breaker.
	const query = `
		INSERT INTO gallery.photo (albumid, filename, rank)
		VALUES ($1, $2, (
			SELECT COALESCE(MAX(rank) + 1, 0) FROM gallery.photo WHERE albumid = $1
		))
		RETURNING id, rank, createdat`

	err := repository.pool.QueryRow(context, query, photo.AlbumID, photo.Filename).
		Scan(&photo.ID, &photo.Rank, &photo.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "photo_add")
	}

	return nil
}

func (repository *galleryRepository) DeletePhoto(context context.Context, id int64) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM gallery.photo WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "photo_delete")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Photo")
	}

	return nil
}

func (repository *galleryRepository) DeletePhotosByAlbum(context context.Context, albumID int64) error {
	if _, err := repository.pool.Exec(context,
		`DELETE FROM gallery.photo WHERE albumid = $1`, albumID); err != nil {
		return dberr.Wrap(err, "photo_delete_by_album")
	}
	return nil
}

func (repository *galleryRepository) SetCover(context context.Context, albumID int64, photoID *int64) error {
	tag, err := repository.pool.Exec(context,
		`UPDATE gallery.album SET coverphotoid = $2, updatedat = now() WHERE id = $1`,
		albumID, photoID)
	if err != nil {
		return dberr.Wrap(err, "album_set_cover")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Album")
	}

	return nil
}

func (repository *galleryRepository) NextCoverCandidate(context context.Context, albumID int64, excludePhotoID int64) (*int64, error) {
	const query = `
		SELECT id FROM gallery.photo
		WHERE albumid = $1 AND id <> $2
		ORDER BY rank ASC, id ASC
		LIMIT 1`

	var candidate int64
	err := repository.pool.QueryRow(context, query, albumID, excludePhotoID).Scan(&candidate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "cover_candidate")
	}

	return &candidate, nil
}
