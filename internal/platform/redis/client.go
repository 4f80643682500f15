// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

/*
Package redis provides the client for expiring server-side state.

Two things live in Redis and nowhere else: the server-side session
records behind the staff cookie, and the single-use CSRF tokens. Both
depend on native TTL expiry, and both sit on the hot path of every
authenticated request, which is why they stay out of PostgreSQL.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second

	// Session lookups are cheap single-key reads; a small pool with a
	// couple of warm connections covers the staff-side traffic.
	poolSize     = 8
	minIdleConns = 2
)

/*
NewClient parses a redis:// URL and returns a validated client.

Parameters:
  - context: bounds the startup ping.
  - redisURL: connection URL, including database index and credentials.
  - logger: receives one line once connectivity is confirmed.

Returns: a ready client, or an error if the URL is malformed or the
server does not answer the ping.
*/
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis client connected", slog.String("addr", options.Addr))
	return client, nil
}

// Ping confirms the server answers within a short deadline. Shared by
// startup validation and the readiness probe.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
