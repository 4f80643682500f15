// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmunteanu/primaria/internal/platform/database/schema"
	"github.com/dmunteanu/primaria/internal/platform/dberr"
)

// # Postgres Repository

// PostgresRepository implements Repository on the system.auditlog table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL implementation of Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Append inserts a new audit entry.

Description: Write-once insert; the database assigns id and createdat. The
entry is updated in place with the generated values.

Parameters:
  - context: context.Context
  - entry: *Entry to persist

Returns:
  - error: Wrapped database errors
*/
func (repository *PostgresRepository) Append(context context.Context, entry *Entry) error {
	table := schema.SystemAuditLog
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s`,
		table.Table,
		table.ActorID, table.Action, table.EntityType, table.EntityID,
		table.Detail, table.IPAddress, table.UserAgent,
		table.ID, table.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		entry.ActorID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Detail,
		entry.IPAddress,
		entry.UserAgent,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return dberr.Wrap(err, "audit_append")
	}

	return nil
}

/*
List returns audit entries newest first, narrowed by the filter.

Parameters:
  - context: context.Context
  - filter: ListFilter (actor / entity type narrowing plus paging)

Returns:
  - []Entry: Matching entries, most recent first
  - error: Wrapped database errors
*/
func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]Entry, error) {
	table := schema.SystemAuditLog

	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s`,
		table.ID, table.ActorID, table.Action, table.EntityType, table.EntityID,
		table.Detail, table.IPAddress, table.UserAgent, table.CreatedAt,
		table.Table,
	))

	arguments := []any{}
	conditions := []string{}

	if filter.ActorID != nil {
		arguments = append(arguments, *filter.ActorID)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", table.ActorID, len(arguments)))
	}
	if filter.EntityType != "" {
		arguments = append(arguments, filter.EntityType)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", table.EntityType, len(arguments)))
	}

	if len(conditions) > 0 {
		builder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	arguments = append(arguments, filter.Limit)
	builder.WriteString(fmt.Sprintf(" ORDER BY %s DESC, %s DESC LIMIT $%d", table.CreatedAt, table.ID, len(arguments)))
	arguments = append(arguments, filter.Offset)
	builder.WriteString(fmt.Sprintf(" OFFSET $%d", len(arguments)))

	rows, err := repository.pool.Query(context, builder.String(), arguments...)
	if err != nil {
		return nil, dberr.Wrap(err, "audit_list")
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		entry := Entry{}
		err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.Action,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Detail,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "audit_list_scan")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "audit_list_rows")
	}

	return entries, nil
}
