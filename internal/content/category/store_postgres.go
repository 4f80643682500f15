// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/database/schema"
	"github.com/dmunteanu/primaria/internal/platform/dberr"
)

// categoryRepository implements [Repository] using pgx.
type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed category store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &categoryRepository{pool: pool}
}

func selectColumns() string {
	table := schema.ContentCategory
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s",
		table.ID, table.Name, table.Slug, table.Kind, table.SortOrder, table.CreatedAt)
}

func (repository *categoryRepository) List(context context.Context, kind string) ([]Category, error) {
	table := schema.ContentCategory

	query := fmt.Sprintf(`SELECT %s FROM %s`, selectColumns(), table.Table)
	arguments := []any{}

	if kind != "" {
		query += fmt.Sprintf(` WHERE %s = $1`, table.Kind)
		arguments = append(arguments, kind)
	}
	query += fmt.Sprintf(` ORDER BY %s ASC, %s ASC`, table.SortOrder, table.Name)

	rows, err := repository.pool.Query(context, query, arguments...)
	if err != nil {
		return nil, dberr.Wrap(err, "category_list")
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		item := Category{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Slug, &item.Kind, &item.SortOrder, &item.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "category_list_scan")
		}
		categories = append(categories, item)
	}

	return categories, rows.Err()
}

func (repository *categoryRepository) GetByID(context context.Context, id int64) (*Category, error) {
	table := schema.ContentCategory
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns(), table.Table, table.ID)

	item := &Category{}
	err := repository.pool.QueryRow(context, query, id).
		Scan(&item.ID, &item.Name, &item.Slug, &item.Kind, &item.SortOrder, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Category")
		}
		return nil, dberr.Wrap(err, "category_get")
	}

	return item, nil
}

func (repository *categoryRepository) Create(context context.Context, category *Category) error {
	table := schema.ContentCategory
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		table.Table, table.Name, table.Slug, table.Kind, table.SortOrder,
		table.ID, table.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		category.Name, category.Slug, category.Kind, category.SortOrder,
	).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "category_create")
	}

	return nil
}

func (repository *categoryRepository) Update(context context.Context, category *Category) error {
	table := schema.ContentCategory
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		table.Table, table.Name, table.Slug, table.SortOrder, table.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		category.ID, category.Name, category.Slug, category.SortOrder)
	if err != nil {
		return dberr.Wrap(err, "category_update")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}

func (repository *categoryRepository) Delete(context context.Context, id int64) error {
	table := schema.ContentCategory
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "category_delete")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}
