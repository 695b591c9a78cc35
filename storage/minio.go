package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	appconfig "crackexam-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage stores paper PDFs in a MinIO (or other S3-compatible) bucket.
type MinioStorage struct {
	client   *minio.Client
	endpoint string
	bucket   string
	folder   string
	useSSL   bool
}

// NewMinioStorage creates a MinIO-backed blob store.
func NewMinioStorage(cfg *appconfig.Config) (*MinioStorage, error) {
	client, err := minio.New(cfg.Storage.Minio.Endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(
			cfg.Storage.Minio.AccessKey,
			cfg.Storage.Minio.SecretKey,
			"",
		),
		Secure: cfg.Storage.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize MinIO client: %w", err)
	}

	return &MinioStorage{
		client:   client,
		endpoint: cfg.Storage.Minio.Endpoint,
		bucket:   cfg.Storage.Minio.Bucket,
		folder:   cfg.Storage.Folder,
		useSSL:   cfg.Storage.Minio.UseSSL,
	}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

func (s *MinioStorage) Upload(ctx context.Context, filename, contentType string, data io.Reader, size int64) (BlobInfo, error) {
	blobID := newBlobID(s.folder, filename)

	_, err := s.client.PutObject(ctx, s.bucket, blobID, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return BlobInfo{}, fmt.Errorf("upload to MinIO: %w", err)
	}

	return BlobInfo{ID: blobID, URL: s.ResolveURL(blobID)}, nil
}

func (s *MinioStorage) Delete(ctx context.Context, blobID string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, blobID, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("stat MinIO object: %w", err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, blobID, minio.RemoveObjectOptions{}); err != nil {
		return true, fmt.Errorf("delete from MinIO: %w", err)
	}
	return true, nil
}

func (s *MinioStorage) Download(ctx context.Context, blobID string) (io.ReadCloser, int64, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, blobID, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("download from MinIO: %w", err)
	}

	// GetObject is lazy; Stat forces the first request and surfaces missing
	// keys before any bytes are relayed.
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, 0, ErrBlobNotFound
		}
		var respErr minio.ErrorResponse
		if errors.As(err, &respErr) && respErr.StatusCode == 404 {
			return nil, 0, ErrBlobNotFound
		}
		return nil, 0, fmt.Errorf("stat MinIO object: %w", err)
	}
	return obj, info.Size, nil
}

func (s *MinioStorage) ResolveURL(blobID string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, escapeKey(blobID))
}
