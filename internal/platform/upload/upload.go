// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

/*
Package upload implements the asset validation and storage pipeline.

Every file a staffer attaches to content passes through the same ordered
gauntlet: size ceiling, extension allow-list, content sniffing, and (for
images) a full decode probe. Only then is the file written under the managed
upload root with a generated name, so nothing a client controls ever becomes
a filesystem path.

Architecture:

  - Variant: Per-asset-class policy (extensions, MIME expectations, ceiling).
  - Storage: Validated writes, guarded deletes, and image downsampling.
  - Naming: timestamp + UUID, collision-free and lexically time-ordered.
*/
package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
)

// # Upload Policies

// Variant describes the validation policy for one class of asset.
//
// allowedSniffs maps a lowercase extension to the content types that
// [http.DetectContentType] may legitimately report for it. Office documents
// are zip containers on the wire, which is why .docx accepts application/zip.
type Variant struct {
	Name          string
	MaxBytes      int64
	allowedExts   map[string]bool
	allowedSniffs map[string][]string
	probeImage    bool
}

// Image is the policy for illustration images attached to announcements.
func Image(maxBytes int64) Variant {
	return Variant{
		Name:     "image",
		MaxBytes: maxBytes,
		allowedExts: map[string]bool{
			".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
		},
		allowedSniffs: map[string][]string{
			".jpg":  {"image/jpeg"},
			".jpeg": {"image/jpeg"},
			".png":  {"image/png"},
			".gif":  {"image/gif"},
		},
		probeImage: true,
	}
}

// Document is the policy for attached official documents.
func Document(maxBytes int64) Variant {
	return Variant{
		Name:     "document",
		MaxBytes: maxBytes,
		allowedExts: map[string]bool{
			".pdf": true, ".doc": true, ".docx": true,
		},
		allowedSniffs: map[string][]string{
			".pdf": {"application/pdf"},
			// Legacy .doc is an OLE container the sniffer cannot name.
			".doc":  {"application/octet-stream", "application/msword"},
			".docx": {"application/zip", "application/octet-stream"},
		},
	}
}

// Photo is the policy for gallery photos. Same formats as Image but with its
// own size ceiling, since galleries carry full-resolution shots.
func Photo(maxBytes int64) Variant {
	variant := Image(maxBytes)
	variant.Name = "photo"
	return variant
}

// Attachment bundles one optional multipart file as received by a handler.
// A zero Attachment means the client sent nothing for that field.
type Attachment struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// Present reports whether the client actually sent a file.
func (attachment Attachment) Present() bool {
	return attachment.File != nil && attachment.Header != nil
}

// # Storage

// Storage validates and persists uploads beneath a single managed root.
//
// All paths handed back to callers are relative to the root; the absolute
// layout is a deployment concern.
type Storage struct {
	root string
}

// NewStorage canonicalizes and creates the upload root.
func NewStorage(root string) (*Storage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("upload: failed to create root %q: %w", root, err)
	}

	canonical, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("upload: failed to resolve root %q: %w", root, err)
	}
	canonical, err = filepath.Abs(canonical)
	if err != nil {
		return nil, fmt.Errorf("upload: failed to absolutize root %q: %w", root, err)
	}

	return &Storage{root: canonical}, nil
}

// Root returns the canonical upload root, for mounting the static file server.
func (storage *Storage) Root() string {
	return storage.root
}

/*
Save validates an uploaded file against the variant policy and persists it.

Description: Checks run cheapest-first and all of them must pass before a
single byte touches the disk. The stored name is generated server-side as
YYYYMMDDHHMMSS_<uuid><ext>; the client-supplied filename contributes only its
extension, and only after validation.

Parameters:
  - file: The opened multipart part
  - header: Its header (size, original filename)
  - variant: Policy to enforce
  - subdir: Per-content-type directory beneath the root (e.g. "anunturi")

Returns:
  - string: Stored path relative to the root (e.g. "anunturi/20260115..._ab.pdf")
  - error: One of the UPLOAD_* taxonomy errors
*/
func (storage *Storage) Save(file multipart.File, header *multipart.FileHeader, variant Variant, subdir string) (string, error) {
	if file == nil || header == nil {
		return "", apperr.UploadFailure("UPLOAD_TRANSPORT", "No file was received")
	}

	// ── 1. Size Ceiling ───────────────────────────────────────────────────
	if header.Size > variant.MaxBytes {
		return "", apperr.UploadFailure("UPLOAD_TOO_LARGE",
			fmt.Sprintf("File exceeds the %d byte limit", variant.MaxBytes))
	}

	// ── 2. Extension Allow-List ───────────────────────────────────────────
	extension := strings.ToLower(filepath.Ext(header.Filename))
	if !variant.allowedExts[extension] {
		return "", apperr.UploadFailure("UPLOAD_BAD_EXTENSION",
			fmt.Sprintf("Extension %q is not allowed for %s uploads", extension, variant.Name))
	}

	// ── 3. Content Sniffing ───────────────────────────────────────────────
	// The first 512 bytes decide; a renamed executable fails here no matter
	// what its extension claims.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", apperr.UploadFailure("UPLOAD_TRANSPORT", "Could not read the uploaded file")
	}
	sniffed := http.DetectContentType(head[:n])
	if !sniffMatches(sniffed, variant.allowedSniffs[extension]) {
		return "", apperr.UploadFailure("UPLOAD_MIME_MISMATCH",
			fmt.Sprintf("File content (%s) does not match its extension", sniffed))
	}

	// ── 4. Image Decode Probe ─────────────────────────────────────────────
	if variant.probeImage {
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return "", apperr.UploadFailure("UPLOAD_TRANSPORT", "Could not read the uploaded file")
		}
		if err := probeImage(file); err != nil {
			return "", apperr.UploadFailure("UPLOAD_CORRUPT_IMAGE", "Image file is corrupt or truncated")
		}
	}

	// ── 5. Persist ────────────────────────────────────────────────────────
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", apperr.UploadFailure("UPLOAD_TRANSPORT", "Could not read the uploaded file")
	}

	name := time.Now().Format("20060102150405") + "_" + uuid.Must(uuid.NewV7()).String() + extension
	directory := filepath.Join(storage.root, subdir)
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return "", apperr.UploadFailure("UPLOAD_STORAGE", "Could not prepare the storage directory")
	}

	destination, err := os.OpenFile(filepath.Join(directory, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", apperr.UploadFailure("UPLOAD_STORAGE", "Could not store the uploaded file")
	}
	defer destination.Close()

	if _, err := io.Copy(destination, file); err != nil {
		_ = os.Remove(destination.Name())
		return "", apperr.UploadFailure("UPLOAD_STORAGE", "Could not store the uploaded file")
	}

	return filepath.ToSlash(filepath.Join(subdir, name)), nil
}

/*
Delete removes a previously stored file.

Description: The relative path is re-anchored under the root and its directory
canonicalized; anything that escapes the root (dot-dot segments, symlink
tricks) is refused outright. A missing file is a no-op, so callers can retry
cleanups safely.

Parameters:
  - relativePath: Path previously returned by Save

Returns:
  - error: SECURITY_VIOLATION for escape attempts, UPLOAD_STORAGE otherwise
*/
func (storage *Storage) Delete(relativePath string) error {
	if relativePath == "" {
		return nil
	}

	target := filepath.Join(storage.root, filepath.FromSlash(relativePath))

	directory, err := filepath.EvalSymlinks(filepath.Dir(target))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperr.UploadFailure("UPLOAD_STORAGE", "Could not resolve the file path")
	}

	if directory != storage.root && !strings.HasPrefix(directory, storage.root+string(filepath.Separator)) {
		return apperr.SecurityViolation()
	}

	if err := os.Remove(filepath.Join(directory, filepath.Base(target))); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperr.UploadFailure("UPLOAD_STORAGE", "Could not delete the file")
	}

	return nil
}

// sniffMatches reports whether the detected content type is acceptable.
// DetectContentType may append parameters ("text/plain; charset=utf-8"), so
// matching is on the prefix.
func sniffMatches(sniffed string, accepted []string) bool {
	for _, candidate := range accepted {
		if strings.HasPrefix(sniffed, candidate) {
			return true
		}
	}
	return false
}
