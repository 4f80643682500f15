// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package audit

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// # Test Doubles

type fakeRepository struct {
	entries    []Entry
	appendErr  error
	lastFilter ListFilter
}

func (repository *fakeRepository) Append(_ context.Context, entry *Entry) error {
	if repository.appendErr != nil {
		return repository.appendErr
	}
	entry.ID = int64(len(repository.entries) + 1)
	repository.entries = append(repository.entries, *entry)
	return nil
}

func (repository *fakeRepository) List(_ context.Context, filter ListFilter) ([]Entry, error) {
	repository.lastFilter = filter
	return repository.entries, nil
}

func newTestService(repository *fakeRepository) *Service {
	return NewService(repository, slog.New(slog.DiscardHandler))
}

// # Tests

func TestRecordAppendsEntry(t *testing.T) {
	repository := &fakeRepository{}
	service := newTestService(repository)

	actorID := int64(7)
	service.Record(context.Background(), ActionUpdate, "announcement", 42, "title changed", Meta{
		ActorID:   &actorID,
		IPAddress: "10.0.0.1",
		UserAgent: "test-agent",
	})

	require.Len(t, repository.entries, 1)
	entry := repository.entries[0]
	assert.Equal(t, ActionUpdate, entry.Action)
	assert.Equal(t, "announcement", entry.EntityType)
	assert.Equal(t, int64(42), entry.EntityID)
	assert.Equal(t, &actorID, entry.ActorID)
	assert.Equal(t, "10.0.0.1", entry.IPAddress)
}

func TestRecordSwallowsStorageFailure(t *testing.T) {
	repository := &fakeRepository{appendErr: errors.New("connection refused")}
	service := newTestService(repository)

	// Must not panic or propagate the error to the mutating caller.
	service.Record(context.Background(), ActionDelete, "album", 3, "removed", Meta{})

	assert.Empty(t, repository.entries)
}

func TestListClampsLimit(t *testing.T) {
	repository := &fakeRepository{}
	service := newTestService(repository)

	_, err := service.List(context.Background(), ListFilter{Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 50, repository.lastFilter.Limit)

	_, err = service.List(context.Background(), ListFilter{Limit: 9999})
	require.NoError(t, err)
	assert.Equal(t, 200, repository.lastFilter.Limit)
}

func TestListRejectsNegativeOffset(t *testing.T) {
	repository := &fakeRepository{}
	service := newTestService(repository)

	_, err := service.List(context.Background(), ListFilter{Offset: -1})
	assert.Error(t, err)
}
