// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package record

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

// recordRepository implements [Repository] using pgx.
type recordRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed record store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &recordRepository{pool: pool}
}

const recordColumns = `
	id, kind, recordnumber, title, slug, categoryid, publishdate, shortbody,
	documentfile, vizibil, views, createdby, createdat, updatedat`

func (repository *recordRepository) List(context context.Context, filter Filter, limit, offset int) ([]Record, int, error) {
	builder := strings.Builder{}
	builder.WriteString(`
		SELECT ` + recordColumns + `, COUNT(*) OVER() AS total_count
		FROM content.record`)

	arguments := []any{}
	conditions := []string{}

	if filter.Kind != "" {
		arguments = append(arguments, filter.Kind)
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(arguments)))
	}
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
		return nil, 0, dberr.Wrap(err, "record_list")
	}
	defer rows.Close()

	records := []Record{}
	total := 0
	for rows.Next() {
		item := Record{}
		err := rows.Scan(
			&item.ID, &item.Kind, &item.Number, &item.Title, &item.Slug,
			&item.CategoryID, &item.PublishDate, &item.ShortBody,
			&item.DocumentFile, &item.Vizibil, &item.Views,
			&item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "record_list_scan")
		}
		records = append(records, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "record_list_rows")
	}

	return records, total, nil
}

func (repository *recordRepository) GetByID(context context.Context, id int64, visibleOnly bool) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM content.record WHERE id = $1`
	if visibleOnly {
		query += ` AND vizibil`
	}

	item := &Record{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&item.ID, &item.Kind, &item.Number, &item.Title, &item.Slug,
		&item.CategoryID, &item.PublishDate, &item.ShortBody,
		&item.DocumentFile, &item.Vizibil, &item.Views,
		&item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Record")
		}
		return nil, dberr.Wrap(err, "record_get")
	}

	return item, nil
}

func (repository *recordRepository) IncrementViews(context context.Context, id int64) error {
	if _, err := repository.pool.Exec(context,
		`UPDATE content.record SET views = views + 1 WHERE id = $1`, id); err != nil {
		return dberr.Wrap(err, "record_increment_views")
	}
	return nil
}

func (repository *recordRepository) Create(context context.Context, record *Record) error {
	const query = `
		INSERT INTO content.record (
			kind, recordnumber, title, slug, categoryid, publishdate,
			shortbody, documentfile, vizibil, createdby
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, views, createdat, updatedat`

	err := repository.pool.QueryRow(context, query,
		record.Kind,
		record.Number,
		record.Title,
		record.Slug,
		record.CategoryID,
		record.PublishDate,
		record.ShortBody,
		record.DocumentFile,
		record.Vizibil,
		record.CreatedBy,
	).Scan(&record.ID, &record.Views, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "record_create")
	}

	return nil
}

func (repository *recordRepository) Update(context context.Context, record *Record) error {
	const query = `
		UPDATE content.record
		SET recordnumber = $2, title = $3, slug = $4, categoryid = $5,
			publishdate = $6, shortbody = $7, documentfile = $8,
			vizibil = $9, updatedat = now()
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query,
		record.ID,
		record.Number,
		record.Title,
		record.Slug,
		record.CategoryID,
		record.PublishDate,
		record.ShortBody,
		record.DocumentFile,
		record.Vizibil,
	)
	if err != nil {
		return dberr.Wrap(err, "record_update")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Record")
	}

	return nil
}

func (repository *recordRepository) Delete(context context.Context, id int64) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM content.record WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "record_delete")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Record")
	}

	return nil
}
