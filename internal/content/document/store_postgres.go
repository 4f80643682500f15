// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package document

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

// documentRepository implements [Repository] using pgx.
type documentRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed document store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &documentRepository{pool: pool}
}

const documentColumns = `
	id, title, slug, categoryid, publishdate, description, documentfile,
	vizibil, views, createdby, createdat, updatedat`

func (repository *documentRepository) List(context context.Context, filter Filter, limit, offset int) ([]Document, int, error) {
	builder := strings.Builder{}
	builder.WriteString(`
		SELECT ` + documentColumns + `, COUNT(*) OVER() AS total_count
		FROM content.document`)

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
		return nil, 0, dberr.Wrap(err, "document_list")
	}
	defer rows.Close()

	documents := []Document{}
	total := 0
	for rows.Next() {
		item := Document{}
		err := rows.Scan(
			&item.ID, &item.Title, &item.Slug, &item.CategoryID, &item.PublishDate,
			&item.Description, &item.DocumentFile, &item.Vizibil, &item.Views,
			&item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "document_list_scan")
		}
		documents = append(documents, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "document_list_rows")
	}

	return documents, total, nil
}

func (repository *documentRepository) GetByID(context context.Context, id int64, visibleOnly bool) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM content.document WHERE id = $1`
	if visibleOnly {
		query += ` AND vizibil`
	}

	item := &Document{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&item.ID, &item.Title, &item.Slug, &item.CategoryID, &item.PublishDate,
		&item.Description, &item.DocumentFile, &item.Vizibil, &item.Views,
		&item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Document")
		}
		return nil, dberr.Wrap(err, "document_get")
	}

	return item, nil
}

func (repository *documentRepository) IncrementViews(context context.Context, id int64) error {
	if _, err := repository.pool.Exec(context,
		`UPDATE content.document SET views = views + 1 WHERE id = $1`, id); err != nil {
		return dberr.Wrap(err, "document_increment_views")
	}
	return nil
}

func (repository *documentRepository) Create(context context.Context, document *Document) error {
	const query = `
		INSERT INTO content.document (
			title, slug, categoryid, publishdate, description,
			documentfile, vizibil, createdby
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, views, createdat, updatedat`

	err := repository.pool.QueryRow(context, query,
		document.Title,
		document.Slug,
		document.CategoryID,
		document.PublishDate,
		document.Description,
		document.DocumentFile,
		document.Vizibil,
		document.CreatedBy,
	).Scan(&document.ID, &document.Views, &document.CreatedAt, &document.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "document_create")
	}

	return nil
}

func (repository *documentRepository) Update(context context.Context, document *Document) error {
	const query = `
		UPDATE content.document
		SET title = $2, slug = $3, categoryid = $4, publishdate = $5,
			description = $6, documentfile = $7, vizibil = $8, updatedat = now()
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query,
		document.ID,
		document.Title,
		document.Slug,
		document.CategoryID,
		document.PublishDate,
		document.Description,
		document.DocumentFile,
		document.Vizibil,
	)
	if err != nil {
		return dberr.Wrap(err, "document_update")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Document")
	}

	return nil
}

func (repository *documentRepository) Delete(context context.Context, id int64) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM content.document WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "document_delete")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Document")
	}

	return nil
}
