package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	appconfig "crackexam-backend/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Storage stores paper PDFs in an AWS S3 bucket.
type S3Storage struct {
	client *s3.Client
	bucket string
	region string
	folder string
}

// NewS3Storage creates an S3-backed blob store.
func NewS3Storage(cfg *appconfig.Config) (*S3Storage, error) {
	ctx := context.Background()

	var awsCfg aws.Config
	var err error
	if cfg.Storage.S3.AccessKey != "" && cfg.Storage.S3.SecretKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Storage.S3.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.Storage.S3.AccessKey,
				cfg.Storage.S3.SecretKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Storage.S3.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &S3Storage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Storage.S3.Bucket,
		region: cfg.Storage.S3.Region,
		folder: cfg.Storage.Folder,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, filename, contentType string, data io.Reader, size int64) (BlobInfo, error) {
	blobID := newBlobID(s.folder, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(blobID),
		Body:          data,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return BlobInfo{}, fmt.Errorf("upload to S3: %w", err)
	}

	return BlobInfo{ID: blobID, URL: s.ResolveURL(blobID)}, nil
}

func (s *S3Storage) Delete(ctx context.Context, blobID string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(blobID),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, fmt.Errorf("stat S3 object: %w", err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(blobID),
	})
	if err != nil {
		return true, fmt.Errorf("delete from S3: %w", err)
	}
	return true, nil
}

func (s *S3Storage) Download(ctx context.Context, blobID string) (io.ReadCloser, int64, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(blobID),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, 0, ErrBlobNotFound
		}
		return nil, 0, fmt.Errorf("download from S3: %w", err)
	}
	return out.Body, aws.ToInt64(out.ContentLength), nil
}

func (s *S3Storage) ResolveURL(blobID string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escapeKey(blobID))
}

// escapeKey percent-encodes each path segment while keeping separators.
func escapeKey(key string) string {
	u := url.URL{Path: key}
	return u.EscapedPath()
}
