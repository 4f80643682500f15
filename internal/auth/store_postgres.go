// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `
	id, username, passwordhash, fullname, role, isactive,
	failedloginattempts, lockoutuntil, lastloginat, createdat, updatedat`

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.IsActive,
		&user.FailedLoginAttempts,
		&user.LockoutUntil,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByID retrieves a staff account by primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users.account WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Staff account")
		}
		return nil, dberr.Wrap(err, "user_find_by_id")
	}

	return user, nil
}

/*
FindByUsername retrieves a staff account by its unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users.account WHERE username = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Staff account")
		}
		return nil, dberr.Wrap(err, "user_find_by_username")
	}

	return user, nil
}

/*
RecordFailure bumps the failed-attempt counter in a single atomic statement.

Description: Concurrent wrong-password submissions race on the counter, so the
increment, the threshold check, and the lockout stamp all happen inside one
UPDATE. A failure arriving after a lockout window has lapsed restarts the
count at one instead of re-locking immediately.

Parameters:
  - context: context.Context
  - userID: int64
  - threshold: Attempts allowed before lockout opens
  - lockout: Length of the lockout window

Returns:
  - int: Counter value after this failure
  - *time.Time: Lockout expiry, nil while still below the threshold
  - error: Wrapped database errors
*/
func (repository *PostgresUserRepository) RecordFailure(context context.Context, userID int64, threshold int, lockout time.Duration) (int, *time.Time, error) {
	const query = `
		UPDATE users.account
		SET failedloginattempts = CASE
				WHEN lockoutuntil IS NOT NULL AND lockoutuntil <= now() THEN 1
				ELSE failedloginattempts + 1
			END,
			lockoutuntil = CASE
				WHEN lockoutuntil IS NOT NULL AND lockoutuntil <= now() THEN NULL
				WHEN failedloginattempts + 1 >= $2 THEN $3
				ELSE lockoutuntil
			END,
			updatedat = now()
		WHERE id = $1
		RETURNING failedloginattempts, lockoutuntil`

	var attempts int
	var lockedUntil *time.Time

	err := repository.pool.QueryRow(context, query, userID, threshold, time.Now().Add(lockout)).
		Scan(&attempts, &lockedUntil)
	if err != nil {
		return 0, nil, dberr.Wrap(err, "user_record_failure")
	}

	return attempts, lockedUntil, nil
}

/*
RecordSuccess resets the lockout state after a verified login.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: Wrapped database errors
*/
func (repository *PostgresUserRepository) RecordSuccess(context context.Context, userID int64) error {
	const query = `
		UPDATE users.account
		SET failedloginattempts = 0,
			lockoutuntil = NULL,
			lastloginat = now(),
			updatedat = now()
		WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return dberr.Wrap(err, "user_record_success")
	}

	return nil
}
