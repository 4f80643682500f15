// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/constants"
	"github.com/dmunteanu/primaria/internal/platform/sec"
)

// # In-Memory Session Store

// MemorySessionStore implements SessionStore with a mutex-guarded map.
//
// It backs tests and single-node development runs; production deployments use
// [RedisSessionStore] so sessions survive restarts.
type MemorySessionStore struct {
	mutex    sync.RWMutex
	sessions map[string]memorySession
}

type memorySession struct {
	session   Session
	expiresAt time.Time
}

// NewMemorySessionStore creates an empty in-memory SessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]memorySession{}}
}

// Save stores a copy of the session under its hashed identifier.
func (store *MemorySessionStore) Save(_ context.Context, session *Session, ttl time.Duration) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	store.sessions[sec.HashToken(session.ID)] = memorySession{
		session:   *session,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Find returns a copy of the stored session, or apperr.NotFound when the
// session is absent or past its TTL.
func (store *MemorySessionStore) Find(_ context.Context, sessionID string) (*Session, error) {
	store.mutex.RLock()
	entry, found := store.sessions[sec.HashToken(sessionID)]
	store.mutex.RUnlock()

	if !found || time.Now().After(entry.expiresAt) {
		return nil, apperr.NotFound("Session")
	}

	session := entry.session
	session.ID = sessionID
	return &session, nil
}

// Delete removes session state. Deleting an absent session is a no-op.
func (store *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	delete(store.sessions, sec.HashToken(sessionID))
	return nil
}

// # In-Memory CSRF Token Store

// MemoryTokenStore implements TokenStore with a mutex-guarded map.
//
// Expired tokens are swept opportunistically whenever the map grows past
// [constants.CsrfSweepThreshold], keeping memory bounded without a background
// goroutine.
type MemoryTokenStore struct {
	mutex  sync.Mutex
	tokens map[string]memoryToken
}

type memoryToken struct {
	scope     string
	expiresAt time.Time
}

// NewMemoryTokenStore creates an empty in-memory TokenStore.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: map[string]memoryToken{}}
}

// Issue mints a token bound to the scope, sweeping expired entries first when
// the store has grown past the threshold.
func (store *MemoryTokenStore) Issue(_ context.Context, scope string) (string, error) {
	token, err := sec.GenerateSecureToken(constants.CsrfTokenLength)
	if err != nil {
		return "", err
	}

	store.mutex.Lock()
	defer store.mutex.Unlock()

	if len(store.tokens) >= constants.CsrfSweepThreshold {
		store.sweepLocked(time.Now())
	}

	store.tokens[sec.HashToken(token)] = memoryToken{
		scope:     scope,
		expiresAt: time.Now().Add(constants.CsrfTokenTTL),
	}
	return token, nil
}

// Validate redeems a token exactly once. See [RedisTokenStore.Validate] for
// the error contract; the two implementations are interchangeable.
func (store *MemoryTokenStore) Validate(_ context.Context, scope string, token string) error {
	key := sec.HashToken(token)

	store.mutex.Lock()
	entry, found := store.tokens[key]
	delete(store.tokens, key)
	store.mutex.Unlock()

	if !found || time.Now().After(entry.expiresAt) {
		return apperr.CsrfExpired()
	}

	if !sec.ConstantTimeEquals(entry.scope, scope) {
		return apperr.CsrfMismatch()
	}

	return nil
}

// sweepLocked drops expired tokens. Callers must hold the mutex.
func (store *MemoryTokenStore) sweepLocked(now time.Time) {
	for key, entry := range store.tokens {
		if now.After(entry.expiresAt) {
			delete(store.tokens, key)
		}
	}
}
