package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sneakpeak/storefront/internal/config"
)

const minioSetupTimeout = 10 * time.Second

// MinIOStorage stores product images in a MinIO bucket and returns
// their public URLs.
type MinIOStorage struct {
	client   *minio.Client
	endpoint string
	bucket   string
	useSSL   bool
}

// NewMinIOStorage creates a MinIO-backed image store and ensures the
// bucket exists.
func NewMinIOStorage(cfg *config.Config) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), minioSetupTimeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Storage.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStorage{
		client:   client,
		endpoint: cfg.Storage.Endpoint,
		bucket:   cfg.Storage.Bucket,
		useSSL:   cfg.Storage.UseSSL,
	}, nil
}

// Upload stores one image and returns its public URL. The object name
// is randomized so repeated uploads never collide.
func (s *MinIOStorage) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	objectName := fmt.Sprintf("%s-%s", uuid.New().String(), filename)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", objectName, err)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName), nil
}

// Remove deletes an object by its name.
func (s *MinIOStorage) Remove(ctx context.Context, objectName string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}
