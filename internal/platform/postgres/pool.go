// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

// Package postgres owns the physical database connection pool.
//
// # Architecture
//
// Infrastructure layer. Every repository in the application borrows
// connections from the single pgxpool built here; nothing else in the
// codebase dials the database.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmunteanu/primaria/internal/platform/constants"
)

// Pool sizing for a single-instance town-hall deployment. Traffic is
// dominated by public reads with a thin trickle of staff writes, so a
// modest pool with a warm floor is enough.
const (
	maxConns          = 20
	minConns          = 4
	maxConnLifetime   = 60 * time.Minute
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = time.Minute

	connectTimeout = 5 * time.Second
	pingTimeout    = 2 * time.Second
)

/*
NewPool builds, tunes and validates the connection pool.

Parameters:
  - ctx: bounds the initial connect and the validation ping.
  - dsn: a postgres:// URL or libpq keyword string.
  - logger: receives one line once the pool is confirmed reachable.

Returns: a ready pool, or an error if the DSN is malformed or the
database cannot be reached. A pool that fails validation is closed
before the error is returned.
*/
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}
	tune(poolConfig)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres pool connected",
		slog.Int("max_conns", int(pool.Stat().MaxConns())),
		slog.String("application", constants.AppName),
	)
	return pool, nil
}

// tune applies the pool sizing constants and per-connection setup.
func tune(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	// Identify this service in pg_stat_activity.
	poolConfig.ConnConfig.RuntimeParams["application_name"] = constants.AppName

	// Runs on every new physical connection. No query may outlive the
	// HTTP request that issued it.
	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		statement := fmt.Sprintf("SET statement_timeout = '%ds'", int(constants.GlobalRequestTimeout.Seconds()))
		_, err := connection.Exec(ctx, statement)
		return err
	}
}

// Ping confirms the database is reachable within a short deadline.
// The readiness probe calls this on every poll.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
