// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package record

import (
	"bytes"
	"context"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmunteanu/primaria/internal/audit"
	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/upload"
	"github.com/dmunteanu/primaria/pkg/pagination"
)

// # Test Doubles

type fakeRepository struct {
	items  map[int64]*Record
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{items: map[int64]*Record{}}
}

func (repository *fakeRepository) List(_ context.Context, filter Filter, limit, offset int) ([]Record, int, error) {
	matching := []Record{}
	for _, item := range repository.items {
		if filter.Kind != "" && item.Kind != filter.Kind {
			continue
		}
		if filter.VisibleOnly && !item.Vizibil {
			continue
		}
		matching = append(matching, *item)
	}
	return matching, len(matching), nil
}

func (repository *fakeRepository) GetByID(_ context.Context, id int64, visibleOnly bool) (*Record, error) {
	item, found := repository.items[id]
	if !found || (visibleOnly && !item.Vizibil) {
		return nil, apperr.NotFound("Record")
	}
	copied := *item
	return &copied, nil
}

func (repository *fakeRepository) IncrementViews(_ context.Context, id int64) error {
	if item, found := repository.items[id]; found {
		item.Views++
	}
	return nil
}

func (repository *fakeRepository) Create(_ context.Context, item *Record) error {
	repository.nextID++
	item.ID = repository.nextID
	stored := *item
	repository.items[item.ID] = &stored
	return nil
}

func (repository *fakeRepository) Update(_ context.Context, item *Record) error {
	stored := *item
	repository.items[item.ID] = &stored
	return nil
}

func (repository *fakeRepository) Delete(_ context.Context, id int64) error {
	delete(repository.items, id)
	return nil
}

type fakeRecorder struct {
	actions []string
}

func (recorder *fakeRecorder) Record(_ context.Context, action string, _ string, _ int64, _ string, _ audit.Meta) {
	recorder.actions = append(recorder.actions, action)
}

// # Fixtures

type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func pdfAttachment(name string) upload.Attachment {
	content := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	return upload.Attachment{
		File: memoryFile{bytes.NewReader(content)},
		Header: &multipart.FileHeader{
			Filename: name,
			Size:     int64(len(content)),
		},
	}
}

func validInput() Input {
	return Input{
		Kind:        KindDecision,
		Number:      "142/2026",
		Title:       "Hotărâre privind aprobarea bugetului local",
		PublishDate: "2026-07-15",
		ShortBody:   "Aprobarea bugetului local.",
		Vizibil:     true,
	}
}

func newTestService(t *testing.T) (*Service, *fakeRepository, *upload.Storage) {
	t.Helper()

	storage, err := upload.NewStorage(t.TempDir())
	require.NoError(t, err)

	repository := newFakeRepository()
	service := NewService(
		repository, storage, upload.Document(20<<20), time.UTC, &fakeRecorder{}, slog.New(slog.DiscardHandler))

	return service, repository, storage
}

// # Create Tests

func TestCreateStoresDocumentAndRow(t *testing.T) {
	service, repository, storage := newTestService(t)

	item, err := service.Create(context.Background(), validInput(), pdfAttachment("hotarare.pdf"), audit.Meta{})
	require.NoError(t, err)

	require.NotNil(t, item.DocumentFile)
	_, statErr := os.Stat(filepath.Join(storage.Root(), *item.DocumentFile))
	assert.NoError(t, statErr)
	assert.Equal(t, KindDecision, item.Kind)
	assert.Len(t, repository.items, 1)
}

func TestCreateRejectsUnknownKind(t *testing.T) {
	service, _, _ := newTestService(t)

	input := validInput()
	input.Kind = "memo"

	_, err := service.Create(context.Background(), input, upload.Attachment{}, audit.Meta{})
	assert.True(t, apperr.Is(err, "VALIDATION_ERROR"))
}

func TestCreateRequiresNumber(t *testing.T) {
	service, _, _ := newTestService(t)

	input := validInput()
	input.Number = ""

	_, err := service.Create(context.Background(), input, upload.Attachment{}, audit.Meta{})
	assert.True(t, apperr.Is(err, "VALIDATION_ERROR"))
}

// # Update Tests

func TestUpdateNeverChangesKind(t *testing.T) {
	service, repository, _ := newTestService(t)

	created, err := service.Create(context.Background(), validInput(), upload.Attachment{}, audit.Meta{})
	require.NoError(t, err)

	// An act never changes its legal nature; the kind field is ignored
	// entirely on update.
	input := validInput()
	input.Kind = KindDisposition
	input.Title = "Hotărâre modificată"

	updated, err := service.Update(context.Background(), created.ID, input, upload.Attachment{}, audit.Meta{})
	require.NoError(t, err)

	assert.Equal(t, KindDecision, updated.Kind)
	assert.Equal(t, KindDecision, repository.items[created.ID].Kind)
	assert.Equal(t, "Hotărâre modificată", updated.Title)
}

func TestUpdateReplacesDocumentAfterCommit(t *testing.T) {
	service, _, storage := newTestService(t)

	created, err := service.Create(context.Background(), validInput(), pdfAttachment("vechi.pdf"), audit.Meta{})
	require.NoError(t, err)
	oldPath := *created.DocumentFile

	updated, err := service.Update(context.Background(), created.ID, validInput(), pdfAttachment("nou.pdf"), audit.Meta{})
	require.NoError(t, err)

	assert.NotEqual(t, oldPath, *updated.DocumentFile)
	_, statErr := os.Stat(filepath.Join(storage.Root(), oldPath))
	assert.True(t, os.IsNotExist(statErr), "replaced file must be unlinked after the update commits")
}

// # Listing Tests

func TestPublicListFiltersByKind(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Create(context.Background(), validInput(), upload.Attachment{}, audit.Meta{})
	require.NoError(t, err)

	disposition := validInput()
	disposition.Kind = KindDisposition
	disposition.Number = "88/2026"
	disposition.Title = "Dispoziție privind convocarea consiliului"
	_, err = service.Create(context.Background(), disposition, upload.Attachment{}, audit.Meta{})
	require.NoError(t, err)

	decisions, _, err := service.PublicList(
		context.Background(), KindDecision, nil, pagination.Params{Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, KindDecision, decisions[0].Kind)
}
