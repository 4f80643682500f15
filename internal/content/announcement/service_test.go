// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package announcement

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
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
	items     map[int64]*Announcement
	nextID    int64
	updateErr error
	createErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{items: map[int64]*Announcement{}}
}

func (repository *fakeRepository) List(_ context.Context, filter Filter, limit, offset int) ([]Announcement, int, error) {
	matching := []Announcement{}
	for _, item := range repository.items {
		if filter.VisibleOnly && !item.Vizibil {
			continue
		}
		matching = append(matching, *item)
	}

	// Same contract as the SQL store: publishdate DESC, id DESC.
	sort.Slice(matching, func(i, j int) bool {
		if !matching[i].PublishDate.Equal(matching[j].PublishDate) {
			return matching[i].PublishDate.After(matching[j].PublishDate)
		}
		return matching[i].ID > matching[j].ID
	})

	total := len(matching)
	if offset >= total {
		return []Announcement{}, total, nil
	}
	matching = matching[offset:]
	if limit < len(matching) {
		matching = matching[:limit]
	}
	return matching, total, nil
}

func (repository *fakeRepository) GetByID(_ context.Context, id int64, visibleOnly bool) (*Announcement, error) {
	item, found := repository.items[id]
	if !found || (visibleOnly && !item.Vizibil) {
		return nil, apperr.NotFound("Announcement")
	}
	copied := *item
	return &copied, nil
}

func (repository *fakeRepository) GetBySlug(_ context.Context, slug string, visibleOnly bool) (*Announcement, error) {
	for _, item := range repository.items {
		if item.Slug == slug {
			return repository.GetByID(context.Background(), item.ID, visibleOnly)
		}
	}
	return nil, apperr.NotFound("Announcement")
}

func (repository *fakeRepository) IncrementViews(_ context.Context, id int64) error {
	if item, found := repository.items[id]; found {
		item.Views++
	}
	return nil
}

func (repository *fakeRepository) Create(_ context.Context, item *Announcement) error {
	if repository.createErr != nil {
		return repository.createErr
	}
	repository.nextID++
	item.ID = repository.nextID
	stored := *item
	repository.items[item.ID] = &stored
	return nil
}

func (repository *fakeRepository) Update(_ context.Context, item *Announcement) error {
	if repository.updateErr != nil {
		return repository.updateErr
	}
	stored := *item
	repository.items[item.ID] = &stored
	return nil
}

func (repository *fakeRepository) Delete(_ context.Context, id int64) error {
	delete(repository.items, id)
	return nil
}

type recordedAction struct {
	action   string
	entityID int64
}

type fakeRecorder struct {
	actions []recordedAction
}

func (recorder *fakeRecorder) Record(_ context.Context, action string, _ string, entityID int64, _ string, _ audit.Meta) {
	recorder.actions = append(recorder.actions, recordedAction{action: action, entityID: entityID})
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

type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func attachmentOf(name string, content []byte) upload.Attachment {
	return upload.Attachment{
		File: memoryFile{bytes.NewReader(content)},
		Header: &multipart.FileHeader{
			Filename: name,
			Size:     int64(len(content)),
		},
	}
}

func pdfAttachment(t *testing.T, name string) upload.Attachment {
	t.Helper()
	return attachmentOf(name, []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n"))
}

func pngAttachment(t *testing.T, name string) upload.Attachment {
	t.Helper()
	buffer := &bytes.Buffer{}
	require.NoError(t, png.Encode(buffer, image.NewNRGBA(image.Rect(0, 0, 8, 8))))
	return attachmentOf(name, buffer.Bytes())
}

func validInput() Input {
	return Input{
		Title:       "Anunț privind lucrările de modernizare",
		PublishDate: "2026-08-20",
		Body:        "Primăria anunță începerea lucrărilor.",
		ShortBody:   "Încep lucrările.",
		Vizibil:     true,
		Priority:    10,
	}
}

func newTestService(t *testing.T) (*Service, *fakeRepository, *fakeRecorder, *upload.Storage) {
	t.Helper()

	storage, err := upload.NewStorage(t.TempDir())
	require.NoError(t, err)

	repository := newFakeRepository()
	recorder := &fakeRecorder{}
	service := NewService(
		repository,
		storage,
		upload.Image(5<<20),
		upload.Document(20<<20),
		time.UTC,
		recorder,
		slog.New(slog.DiscardHandler),
	)

	return service, repository, recorder, storage
}

func fileExists(storage *upload.Storage, relative string) bool {
	_, err := os.Stat(filepath.Join(storage.Root(), relative))
	return err == nil
}

// # Create Tests

func TestCreateStoresAttachmentsAndRow(t *testing.T) {
	service, repository, recorder, storage := newTestService(t)

	item, err := service.Create(context.Background(), validInput(),
		pdfAttachment(t, "act.pdf"), pngAttachment(t, "poza.png"), audit.Meta{})
	require.NoError(t, err)

	require.NotNil(t, item.DocumentFile)
	require.NotNil(t, item.ImageFile)
	assert.True(t, fileExists(storage, *item.DocumentFile))
	assert.True(t, fileExists(storage, *item.ImageFile))
	assert.Equal(t, "anunt-privind-lucrarile-de-modernizare", item.Slug)
	assert.Len(t, repository.items, 1)
	assert.True(t, recorder.has(audit.ActionCreate))
}

func TestCreateRollsBackFilesOnInsertFailure(t *testing.T) {
	service, repository, _, storage := newTestService(t)
	repository.createErr = errors.New("constraint violation")

	_, err := service.Create(context.Background(), validInput(),
		pdfAttachment(t, "act.pdf"), upload.Attachment{}, audit.Meta{})
	require.Error(t, err)

	// Nothing may survive on disk when the row never landed.
	entries, readErr := os.ReadDir(filepath.Join(storage.Root(), "anunturi"))
	if readErr == nil {
		assert.Empty(t, entries)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	service, _, _, _ := newTestService(t)

	input := validInput()
	input.Title = ""
	input.PublishDate = "20-08-2026"

	_, err := service.Create(context.Background(), input, upload.Attachment{}, upload.Attachment{}, audit.Meta{})
	assert.True(t, apperr.Is(err, "VALIDATION_ERROR"))
}

// # Replacement Rule Tests

func TestUpdateReplacesDocumentAfterCommit(t *testing.T) {
	service, _, recorder, storage := newTestService(t)

	created, err := service.Create(context.Background(), validInput(),
		pdfAttachment(t, "vechi.pdf"), upload.Attachment{}, audit.Meta{})
	require.NoError(t, err)
	oldPath := *created.DocumentFile

	updated, err := service.Update(context.Background(), created.ID, validInput(),
		pdfAttachment(t, "nou.pdf"), upload.Attachment{}, audit.Meta{})
	require.NoError(t, err)

	require.NotNil(t, updated.DocumentFile)
	assert.NotEqual(t, oldPath, *updated.DocumentFile)
	assert.True(t, fileExists(storage, *updated.DocumentFile))
	assert.False(t, fileExists(storage, oldPath), "replaced file must be unlinked after the update commits")
	assert.True(t, recorder.has(audit.ActionUpdate))
}

func TestUpdateKeepsOldFileWhenCommitFails(t *testing.T) {
	service, repository, _, storage := newTestService(t)

	created, err := service.Create(context.Background(), validInput(),
		pdfAttachment(t, "vechi.pdf"), upload.Attachment{}, audit.Meta{})
	require.NoError(t, err)
	oldPath := *created.DocumentFile

	repository.updateErr = errors.New("deadlock detected")

	_, err = service.Update(context.Background(), created.ID, validInput(),
		pdfAttachment(t, "nou.pdf"), upload.Attachment{}, audit.Meta{})
	require.Error(t, err)

	// The failed update must leave the original attachment untouched and
	// clean up the file it had staged.
	assert.True(t, fileExists(storage, oldPath))
	assert.Equal(t, oldPath, *repository.items[created.ID].DocumentFile)
}

func TestUpdateWithoutAttachmentKeepsExistingFile(t *testing.T) {
	service, _, _, storage := newTestService(t)

	created, err := service.Create(context.Background(), validInput(),
		pdfAttachment(t, "act.pdf"), upload.Attachment{}, audit.Meta{})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, validInput(),
		upload.Attachment{}, upload.Attachment{}, audit.Meta{})
	require.NoError(t, err)

	require.NotNil(t, updated.DocumentFile)
	assert.Equal(t, *created.DocumentFile, *updated.DocumentFile)
	assert.True(t, fileExists(storage, *updated.DocumentFile))
}

// # Delete Tests

func TestDeleteRemovesRowThenFiles(t *testing.T) {
	service, repository, recorder, storage := newTestService(t)

	created, err := service.Create(context.Background(), validInput(),
		pdfAttachment(t, "act.pdf"), pngAttachment(t, "poza.png"), audit.Meta{})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID, audit.Meta{}))

	assert.Empty(t, repository.items)
	assert.False(t, fileExists(storage, *created.DocumentFile))
	assert.False(t, fileExists(storage, *created.ImageFile))
	assert.True(t, recorder.has(audit.ActionDelete))
}

// # Public Read Tests

func TestPublicGetCountsView(t *testing.T) {
	service, repository, _, _ := newTestService(t)

	created, err := service.Create(context.Background(), validInput(),
		upload.Attachment{}, upload.Attachment{}, audit.Meta{})
	require.NoError(t, err)

	item, err := service.PublicGet(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.Views)
	assert.Equal(t, int64(1), repository.items[created.ID].Views)
}

func TestPublicGetHidesInvisibleItems(t *testing.T) {
	service, _, _, _ := newTestService(t)

	input := validInput()
	input.Vizibil = false
	created, err := service.Create(context.Background(), input,
		upload.Attachment{}, upload.Attachment{}, audit.Meta{})
	require.NoError(t, err)

	_, err = service.PublicGet(context.Background(), created.ID)
	assert.True(t, apperr.Is(err, "NOT_FOUND"))

	// The admin surface still sees it.
	hidden, err := service.AdminGet(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, hidden.Vizibil)
}

/*
TestPublicListOrdersNewestFirstThenHighestID pins the list ordering contract:
newer publish dates first, and within the same date the higher id wins, so
same-day items surface in insertion order and pagination never shuffles.
*/
func TestPublicListOrdersNewestFirstThenHighestID(t *testing.T) {
	service, repository, _, _ := newTestService(t)

	january := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seed := map[int64]time.Time{5: january, 9: march, 2: march}
	for id, date := range seed {
		repository.items[id] = &Announcement{
			ID:          id,
			Title:       fmt.Sprintf("Anunț %d", id),
			PublishDate: date,
			Vizibil:     true,
		}
	}

	items, meta, err := service.PublicList(context.Background(), nil, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 3)

	got := []int64{items[0].ID, items[1].ID, items[2].ID}
	assert.Equal(t, []int64{9, 2, 5}, got)
	assert.Equal(t, 3, meta.Total)
}
