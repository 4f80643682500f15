// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package upload

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
)

// # Test Helpers

// memoryFile adapts an in-memory buffer to the multipart.File interface.
type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func uploadOf(name string, content []byte) (multipart.File, *multipart.FileHeader) {
	return memoryFile{bytes.NewReader(content)}, &multipart.FileHeader{
		Filename: name,
		Size:     int64(len(content)),
	}
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	canvas.Set(0, 0, color.NRGBA{R: 200, A: 255})
	buffer := &bytes.Buffer{}
	require.NoError(t, png.Encode(buffer, canvas))
	return buffer.Bytes()
}

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	buffer := &bytes.Buffer{}
	require.NoError(t, jpeg.Encode(buffer, canvas, nil))
	return buffer.Bytes()
}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	return storage
}

func uploadCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	return appError.Code
}

// # Save Tests

func TestSaveValidImage(t *testing.T) {
	storage := newTestStorage(t)

	file, header := uploadOf("stema.png", pngBytes(t, 10, 10))
	stored, err := storage.Save(file, header, Image(1<<20), "anunturi")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored, "anunturi/"))
	assert.True(t, strings.HasSuffix(stored, ".png"))

	info, err := os.Stat(filepath.Join(storage.Root(), stored))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestSaveValidPdfDocument(t *testing.T) {
	storage := newTestStorage(t)

	content := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	file, header := uploadOf("hotarare.pdf", content)

	stored, err := storage.Save(file, header, Document(1<<20), "hotarari")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stored, ".pdf"))
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	storage := newTestStorage(t)

	file, header := uploadOf("mare.png", pngBytes(t, 10, 10))
	_, err := storage.Save(file, header, Image(10), "anunturi")

	assert.Equal(t, "UPLOAD_TOO_LARGE", uploadCode(t, err))
}

func TestSaveRejectsBadExtension(t *testing.T) {
	storage := newTestStorage(t)

	file, header := uploadOf("script.exe", []byte("MZ..."))
	_, err := storage.Save(file, header, Document(1<<20), "hotarari")

	assert.Equal(t, "UPLOAD_BAD_EXTENSION", uploadCode(t, err))
}

func TestSaveRejectsSpoofedExtension(t *testing.T) {
	storage := newTestStorage(t)

	// Plain text wearing a .pdf name must fail the sniff, not the extension check.
	file, header := uploadOf("fals.pdf", []byte("this is just text pretending"))
	_, err := storage.Save(file, header, Document(1<<20), "hotarari")

	assert.Equal(t, "UPLOAD_MIME_MISMATCH", uploadCode(t, err))
}

func TestSaveRejectsCorruptImage(t *testing.T) {
	storage := newTestStorage(t)

	// Genuine PNG magic followed by garbage: passes the sniff, fails the decode.
	corrupt := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0xAB}, 64)...)
	file, header := uploadOf("rupt.png", corrupt)
	_, err := storage.Save(file, header, Image(1<<20), "anunturi")

	assert.Equal(t, "UPLOAD_CORRUPT_IMAGE", uploadCode(t, err))
}

func TestSaveIgnoresClientFilename(t *testing.T) {
	storage := newTestStorage(t)

	file, header := uploadOf("../../../evil.png", pngBytes(t, 4, 4))
	stored, err := storage.Save(file, header, Image(1<<20), "galerie")
	require.NoError(t, err)

	// Only the extension survives; the stored name is fully generated.
	assert.NotContains(t, stored, "..")
	assert.NotContains(t, stored, "evil")
}

// # Delete Tests

func TestDeleteRefusesEscapingPath(t *testing.T) {
	storage := newTestStorage(t)

	err := storage.Delete("../../../etc/passwd")
	assert.True(t, apperr.Is(err, "SECURITY_VIOLATION"))
}

func TestDeleteMissingFileIsNoOp(t *testing.T) {
	storage := newTestStorage(t)

	assert.NoError(t, storage.Delete("anunturi/nothing_here.pdf"))
	assert.NoError(t, storage.Delete(""))
}

func TestDeleteRemovesStoredFile(t *testing.T) {
	storage := newTestStorage(t)

	file, header := uploadOf("poza.png", pngBytes(t, 4, 4))
	stored, err := storage.Save(file, header, Image(1<<20), "galerie")
	require.NoError(t, err)

	require.NoError(t, storage.Delete(stored))
	_, statErr := os.Stat(filepath.Join(storage.Root(), stored))
	assert.True(t, os.IsNotExist(statErr))
}

// # Optimize Tests

func TestOptimizeDownsamplesOversizedImage(t *testing.T) {
	storage := newTestStorage(t)

	file, header := uploadOf("panorama.jpg", jpegBytes(t, 2000, 1000))
	stored, err := storage.Save(file, header, Image(10<<20), "anunturi")
	require.NoError(t, err)

	require.NoError(t, storage.Optimize(stored, 1920, 960))

	reopened, err := os.Open(filepath.Join(storage.Root(), stored))
	require.NoError(t, err)
	defer reopened.Close()

	resized, _, err := image.Decode(reopened)
	require.NoError(t, err)
	assert.Equal(t, 1920, resized.Bounds().Dx())
	assert.Equal(t, 960, resized.Bounds().Dy())
}

func TestOptimizeNeverUpscales(t *testing.T) {
	storage := newTestStorage(t)

	file, header := uploadOf("mica.jpg", jpegBytes(t, 100, 50))
	stored, err := storage.Save(file, header, Image(1<<20), "anunturi")
	require.NoError(t, err)

	original, err := os.ReadFile(filepath.Join(storage.Root(), stored))
	require.NoError(t, err)

	require.NoError(t, storage.Optimize(stored, 1920, 960))

	after, err := os.ReadFile(filepath.Join(storage.Root(), stored))
	require.NoError(t, err)
	assert.Equal(t, original, after, "in-bounds image must be left untouched")
}

func TestOptimizeSoftFailsOnNonImage(t *testing.T) {
	storage := newTestStorage(t)

	content := []byte("%PDF-1.4\nnot an image\n")
	file, header := uploadOf("act.pdf", content)
	stored, err := storage.Save(file, header, Document(1<<20), "proiecte")
	require.NoError(t, err)

	assert.NoError(t, storage.Optimize(stored, 100, 100))
}
