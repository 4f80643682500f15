// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package announcement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/dberr"
)

// # PostgreSQL Repository

// announcementRepository implements [Repository] using pgx.
type announcementRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed announcement store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &announcementRepository{pool: pool}
}

const announcementColumns = `
	id, title, slug, categoryid, publishdate, body, shortbody,
	documentfile, imagefile, vizibil, priority, views,
	createdby, createdat, updatedat`

func scanAnnouncement(row pgx.Row) (*Announcement, error) {
	item := &Announcement{}
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Slug,
		&item.CategoryID,
		&item.PublishDate,
		&item.Body,
		&item.ShortBody,
		&item.DocumentFile,
		&item.ImageFile,
		&item.Vizibil,
		&item.Priority,
		&item.Views,
		&item.CreatedBy,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

/*
List returns a filtered, paginated slice of announcements and the total count.

Description: Uses COUNT(*) OVER() so the total arrives with the page in one
round trip. Ordering is fixed: newest publish date first, with the id as the
tie-breaker so items published the same day keep a stable order.

Parameters:
  - context: context.Context
  - filter: Filter (category, visibility)
  - limit: int
  - offset: int

Returns:
  - []Announcement: The page of items
  - int: Total count matching the filter
  - error: Wrapped database errors
*/
func (repository *announcementRepository) List(context context.Context, filter Filter, limit, offset int) ([]Announcement, int, error) {
	builder := strings.Builder{}
	builder.WriteString(`
		SELECT ` + announcementColumns + `, COUNT(*) OVER() AS total_count
		FROM content.announcement`)

	arguments := []any{}
	conditions := []string{}

	if filter.VisibleOnly {
		conditions = append(conditions, "vizibil")
	}
	if filter.CategoryID != nil {
		arguments = append(arguments, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("categoryid = $%d", len(arguments)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	arguments = append(arguments, limit)
	builder.WriteString(fmt.Sprintf(" ORDER BY publishdate DESC, id DESC LIMIT $%d", len(arguments)))
	arguments = append(arguments, offset)
	builder.WriteString(fmt.Sprintf(" OFFSET $%d", len(arguments)))

	rows, err := repository.pool.Query(context, builder.String(), arguments...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "announcement_list")
	}
	defer rows.Close()

	items := []Announcement{}
	total := 0
	for rows.Next() {
		item := Announcement{}
		err := rows.Scan(
			&item.ID, &item.Title, &item.Slug, &item.CategoryID, &item.PublishDate,
			&item.Body, &item.ShortBody, &item.DocumentFile, &item.ImageFile,
			&item.Vizibil, &item.Priority, &item.Views,
			&item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "announcement_list_scan")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "announcement_list_rows")
	}

	return items, total, nil
}

func (repository *announcementRepository) GetByID(context context.Context, id int64, visibleOnly bool) (*Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM content.announcement WHERE id = $1`
	if visibleOnly {
		query += ` AND vizibil`
	}

	item, err := scanAnnouncement(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Announcement")
		}
		return nil, dberr.Wrap(err, "announcement_get")
	}

	return item, nil
}

func (repository *announcementRepository) GetBySlug(context context.Context, slug string, visibleOnly bool) (*Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM content.announcement WHERE slug = $1`
	if visibleOnly {
		query += ` AND vizibil`
	}

	item, err := scanAnnouncement(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Announcement")
		}
		return nil, dberr.Wrap(err, "announcement_get_by_slug")
	}

	return item, nil
}

func (repository *announcementRepository) IncrementViews(context context.Context, id int64) error {
	const query = `UPDATE content.announcement SET views = views + 1 WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "announcement_increment_views")
	}
	return nil
}

func (repository *announcementRepository) Create(context context.Context, announcement *Announcement) error {
	const query = `
		INSERT INTO content.announcement (
			title, slug, categoryid, publishdate, body, shortbody,
			documentfile, imagefile, vizibil, priority, createdby
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, views, createdat, updatedat`

	err := repository.pool.QueryRow(context, query,
		announcement.Title,
		announcement.Slug,
		announcement.CategoryID,
		announcement.PublishDate,
		announcement.Body,
		announcement.ShortBody,
		announcement.DocumentFile,
		announcement.ImageFile,
		announcement.Vizibil,
		announcement.Priority,
		announcement.CreatedBy,
	).Scan(&announcement.ID, &announcement.Views, &announcement.CreatedAt, &announcement.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "announcement_create")
	}

	return nil
}

func (repository *announcementRepository) Update(context context.Context, announcement *Announcement) error {
	const query = `
		UPDATE content.announcement
		SET title = $2, slug = $3, categoryid = $4, publishdate = $5,
			body = $6, shortbody = $7, documentfile = $8, imagefile = $9,
			vizibil = $10, priority = $11, updatedat = now()
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query,
		announcement.ID,
		announcement.Title,
		announcement.Slug,
		announcement.CategoryID,
		announcement.PublishDate,
		announcement.Body,
		announcement.ShortBody,
		announcement.DocumentFile,
		announcement.ImageFile,
		announcement.Vizibil,
		announcement.Priority,
	)
	if err != nil {
		return dberr.Wrap(err, "announcement_update")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Announcement")
	}

	return nil
}

func (repository *announcementRepository) Delete(context context.Context, id int64) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM content.announcement WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "announcement_delete")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Announcement")
	}

	return nil
}
