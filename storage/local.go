package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage keeps blobs on the local filesystem under a base directory.
// It has no public URL scheme; retrieval goes through the proxy relay.
type LocalStorage struct {
	basePath string
	folder   string
}

// NewLocalStorage creates a disk-backed blob store rooted at basePath.
func NewLocalStorage(basePath, folder string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath, folder: folder}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, filename, contentType string, data io.Reader, size int64) (BlobInfo, error) {
	blobID := newBlobID(s.folder, filename)
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(blobID))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return BlobInfo{}, fmt.Errorf("create blob directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return BlobInfo{}, fmt.Errorf("create blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(fullPath)
		return BlobInfo{}, fmt.Errorf("write blob file: %w", err)
	}

	return BlobInfo{ID: blobID}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, blobID string) (bool, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(blobID))
	err := os.Remove(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete blob file: %w", err)
	}
	return true, nil
}

func (s *LocalStorage) Download(ctx context.Context, blobID string) (io.ReadCloser, int64, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(blobID))

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, ErrBlobNotFound
		}
		return nil, 0, fmt.Errorf("open blob file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat blob file: %w", err)
	}
	return f, info.Size(), nil
}

func (s *LocalStorage) ResolveURL(blobID string) string {
	return ""
}
