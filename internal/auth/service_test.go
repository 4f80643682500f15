// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmunteanu/primaria/internal/audit"
	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/constants"
	"github.com/dmunteanu/primaria/internal/platform/sec"
)

// # Test Doubles

// fakeUserRepository mimics the Postgres counter semantics in memory.
type fakeUserRepository struct {
	users map[string]*User
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id int64) (*User, error) {
	for _, user := range repository.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("Staff account")
}

func (repository *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	user, found := repository.users[username]
	if !found {
		return nil, apperr.NotFound("Staff account")
	}
	copied := *user
	return &copied, nil
}

func (repository *fakeUserRepository) RecordFailure(_ context.Context, userID int64, threshold int, lockout time.Duration) (int, *time.Time, error) {
	for _, user := range repository.users {
		if user.ID != userID {
			continue
		}
		now := time.Now()
		if user.LockoutUntil != nil && !now.Before(*user.LockoutUntil) {
			user.FailedLoginAttempts = 1
			user.LockoutUntil = nil
			return 1, nil, nil
		}
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= threshold {
			until := now.Add(lockout)
			user.LockoutUntil = &until
		}
		return user.FailedLoginAttempts, user.LockoutUntil, nil
	}
	return 0, nil, apperr.NotFound("Staff account")
}

func (repository *fakeUserRepository) RecordSuccess(_ context.Context, userID int64) error {
	for _, user := range repository.users {
		if user.ID == userID {
			now := time.Now()
			user.FailedLoginAttempts = 0
			user.LockoutUntil = nil
			user.LastLoginAt = &now
		}
	}
	return nil
}

type recordedAction struct {
	action string
	detail string
}

type fakeRecorder struct {
	actions []recordedAction
}

func (recorder *fakeRecorder) Record(_ context.Context, action string, _ string, _ int64, detail string, _ audit.Meta) {
	recorder.actions = append(recorder.actions, recordedAction{action: action, detail: detail})
}

func (recorder *fakeRecorder) has(action string) bool {
	for _, recorded := range recorder.actions {
		if recorded.action == action {
			return true
		}
	}
	return false
}

// # Fixtures

const testPassword = "parola-primariei"

func newTestEnvironment(t *testing.T) (*Service, *fakeUserRepository, *fakeRecorder, *SessionManager) {
	t.Helper()

	hash, err := sec.HashPassword(testPassword)
	require.NoError(t, err)

	repository := &fakeUserRepository{users: map[string]*User{
		"secretar": {
			ID:           1,
			Username:     "secretar",
			PasswordHash: hash,
			FullName:     "Secretar General",
			Role:         sec.RoleEditor,
			IsActive:     true,
		},
	}}

	manager := NewSessionManager(NewMemorySessionStore(), false, http.SameSiteLaxMode)
	recorder := &fakeRecorder{}
	service := NewService(repository, manager, recorder)

	return service, repository, recorder, manager
}

// # Login Tests

func TestLoginSuccessEstablishesSession(t *testing.T) {
	service, repository, recorder, manager := newTestEnvironment(t)

	principal, cookie, err := service.Login(context.Background(), LoginInput{
		Username: "secretar",
		Password: testPassword,
	}, "192.0.2.10", audit.Meta{})

	require.NoError(t, err)
	require.NotNil(t, principal)
	require.NotNil(t, cookie)
	assert.Equal(t, constants.SessionCookieName, cookie.Name)
	assert.Equal(t, principal.SessionID, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, recorder.has(audit.ActionLoginSuccess))

	// The cookie must resolve back to the same identity.
	resolved, _, err := manager.Authenticate(context.Background(), cookie.Value, "192.0.2.10")
	require.NoError(t, err)
	assert.Equal(t, int64(1), resolved.UserID)

	assert.Nil(t, repository.users["secretar"].LockoutUntil)
}

func TestLoginUnknownUserIsIndistinguishable(t *testing.T) {
	service, _, recorder, _ := newTestEnvironment(t)

	_, _, unknownErr := service.Login(context.Background(), LoginInput{
		Username: "nobody",
		Password: "whatever",
	}, "192.0.2.10", audit.Meta{})

	_, _, wrongErr := service.Login(context.Background(), LoginInput{
		Username: "secretar",
		Password: "wrong",
	}, "192.0.2.10", audit.Meta{})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)

	// Same code, same message: the form cannot enumerate accounts.
	assert.Equal(t, apperr.As(unknownErr).Code, apperr.As(wrongErr).Code)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.True(t, recorder.has(audit.ActionLoginFailure))
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	service, repository, recorder, _ := newTestEnvironment(t)

	var lastErr error
	for attempt := 0; attempt < constants.MaxLoginAttempts; attempt++ {
		_, _, lastErr = service.Login(context.Background(), LoginInput{
			Username: "secretar",
			Password: "wrong",
		}, "192.0.2.10", audit.Meta{})
	}

	require.True(t, apperr.Is(lastErr, "ACCOUNT_LOCKED"))
	require.NotNil(t, repository.users["secretar"].LockoutUntil)
	assert.True(t, recorder.has(audit.ActionLockout))

	// Even the correct password is refused while the window is open.
	_, _, err := service.Login(context.Background(), LoginInput{
		Username: "secretar",
		Password: testPassword,
	}, "192.0.2.10", audit.Meta{})
	assert.True(t, apperr.Is(err, "ACCOUNT_LOCKED"))
}

func TestLoginInactiveAccountIsRefused(t *testing.T) {
	service, repository, _, _ := newTestEnvironment(t)
	repository.users["secretar"].IsActive = false

	_, _, err := service.Login(context.Background(), LoginInput{
		Username: "secretar",
		Password: testPassword,
	}, "192.0.2.10", audit.Meta{})

	assert.True(t, apperr.Is(err, "ACCOUNT_INACTIVE"))
}

func TestLogoutDestroysSession(t *testing.T) {
	service, _, recorder, manager := newTestEnvironment(t)

	principal, cookie, err := service.Login(context.Background(), LoginInput{
		Username: "secretar",
		Password: testPassword,
	}, "192.0.2.10", audit.Meta{})
	require.NoError(t, err)

	expired, err := service.Logout(context.Background(), principal, audit.Meta{})
	require.NoError(t, err)
	assert.Negative(t, expired.MaxAge)
	assert.True(t, recorder.has(audit.ActionLogout))

	_, _, err = manager.Authenticate(context.Background(), cookie.Value, "192.0.2.10")
	assert.True(t, apperr.Is(err, "SESSION_EXPIRED"))
}
