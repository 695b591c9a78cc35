package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"crackexam-backend/config"

	"github.com/google/uuid"
)

// ErrBlobNotFound is returned when the requested blob does not exist at the
// provider. Callers use it to distinguish a missing document from a failed
// transfer.
var ErrBlobNotFound = errors.New("blob not found")

// BlobInfo describes a successfully stored blob.
type BlobInfo struct {
	// ID is the provider identifier; it is folder-qualified and may contain
	// path separators, so it travels as a query value, never a path segment.
	ID string
	// URL is a directly fetchable provider URL, empty when the backend has
	// no public URL scheme (local disk).
	URL string
}

// Storage is the blob store capability behind the paper lifecycle. PDFs are
// stored as raw binary; no backend may transform the bytes.
type Storage interface {
	// Upload stores the whole buffer under a fresh blob id. Either the
	// entire object lands or none of it does.
	Upload(ctx context.Context, filename, contentType string, data io.Reader, size int64) (BlobInfo, error)

	// Delete removes a blob. A blob already absent at the provider is a
	// benign no-op: found reports false and err is nil so callers can log
	// the distinction.
	Delete(ctx context.Context, blobID string) (found bool, err error)

	// Download streams the blob without buffering it whole. Returns
	// ErrBlobNotFound when the provider has no such object.
	Download(ctx context.Context, blobID string) (io.ReadCloser, int64, error)

	// ResolveURL derives a fetchable URL for the blob id from configuration
	// alone, with no network call. Empty when the backend has none.
	ResolveURL(blobID string) string
}

// New builds the storage backend selected by configuration.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return NewS3Storage(cfg)
	case "minio":
		return NewMinioStorage(cfg)
	case "local":
		return NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.Folder)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

// newBlobID generates a unique, folder-qualified blob identifier that keeps
// the original filename recognizable.
func newBlobID(folder, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	base = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(base)
	return fmt.Sprintf("%s/%s_%s%s", folder, uuid.NewString(), base, ext)
}
