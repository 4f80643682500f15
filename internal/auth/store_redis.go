// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/constants"
	"github.com/dmunteanu/primaria/internal/platform/sec"
)

// # Session Store

// RedisSessionStore implements SessionStore using Redis.
//
// Sessions are keyed by the SHA-256 of the identifier and expire via Redis
// TTL, so abandoned sessions vanish without any sweeper process.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a new Redis-backed SessionStore.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(sessionID string) string {
	return constants.RedisPrefixSession + sec.HashToken(sessionID)
}

/*
Save serializes the session state under its hashed identifier.

Parameters:
  - context: context.Context
  - session: *Session
  - ttl: time.Duration

Returns:
  - error: Serialization or connectivity errors
*/
func (store *RedisSessionStore) Save(context context.Context, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	if err := store.client.Set(context, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_save_failed: %w", err)
	}

	return nil
}

/*
Find retrieves and rehydrates session state by identifier.

Description: Returns apperr.NotFound when the session is absent or its TTL has
lapsed. The identifier is restored onto the returned value since it is never
serialized.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *Session: Hydrated session state
  - error: apperr.NotFound or connectivity errors
*/
func (store *RedisSessionStore) Find(context context.Context, sessionID string) (*Session, error) {
	payload, err := store.client.Get(context, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_find_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_unmarshal_failed: %w", err)
	}
	session.ID = sessionID

	return session, nil
}

/*
Delete removes session state.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Connectivity errors
*/
func (store *RedisSessionStore) Delete(context context.Context, sessionID string) error {
	if err := store.client.Del(context, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

// # CSRF Token Store

// RedisTokenStore implements TokenStore using Redis.
//
// Single-use semantics come from GETDEL: the read that validates a token is
// the same atomic operation that destroys it, so concurrent replays cannot
// both succeed.
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore creates a new Redis-backed TokenStore.
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func csrfKey(token string) string {
	return constants.RedisPrefixCsrfToken + sec.HashToken(token)
}

/*
Issue mints a fresh anti-forgery token bound to the given scope.

Parameters:
  - context: context.Context
  - scope: Session identifier or anonymous scope value

Returns:
  - string: The token to hand to the client
  - error: Token generation or connectivity errors
*/
func (store *RedisTokenStore) Issue(context context.Context, scope string) (string, error) {
	token, err := sec.GenerateSecureToken(constants.CsrfTokenLength)
	if err != nil {
		return "", fmt.Errorf("redis_csrf_issue_failed: %w", err)
	}

	if err := store.client.Set(context, csrfKey(token), scope, constants.CsrfTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("redis_csrf_save_failed: %w", err)
	}

	return token, nil
}

/*
Validate redeems a token for the given scope.

Description: Unknown or expired tokens and replay attempts are
indistinguishable to the client; both fail with CSRF_EXPIRED. A live token
submitted under a foreign scope fails with CSRF_MISMATCH.

Parameters:
  - context: context.Context
  - scope: Scope the requester resolved to
  - token: Submitted token

Returns:
  - error: apperr.CsrfExpired, apperr.CsrfMismatch, or connectivity errors
*/
func (store *RedisTokenStore) Validate(context context.Context, scope string, token string) error {
	boundScope, err := store.client.GetDel(context, csrfKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperr.CsrfExpired()
		}
		return fmt.Errorf("redis_csrf_validate_failed: %w", err)
	}

	if !sec.ConstantTimeEquals(boundScope, scope) {
		return apperr.CsrfMismatch()
	}

	return nil
}
