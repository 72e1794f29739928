package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sangrahak/inventroops/internal/config"
)

// MinioClient implements ObjectStorage for MinIO / S3-compatible services.
type MinioClient struct {
	client *minio.Client
	bucket string
}

// NewMinioClient builds a new MinioClient from the storage configuration.
func NewMinioClient(cfg config.StorageConfig) (*MinioClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client init failed: %w", err)
	}

	return &MinioClient{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// ListObjects lists all objects for a given prefix.
func (c *MinioClient) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	results := make([]ObjectInfo, 0)
	for object := range c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("minio list failed: %w", object.Err)
		}
		results = append(results, ObjectInfo{
			Key:  object.Key,
			Size: object.Size,
		})
	}
	return results, nil
}

// DownloadObject downloads an object to the provided destination path.
func (c *MinioClient) DownloadObject(ctx context.Context, key, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed creating directory for %s: %w", destPath, err)
	}
	if err := c.client.FGetObject(ctx, c.bucket, key, destPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("minio download failed for %s: %w", key, err)
	}
	return nil
}

// UploadObject uploads raw bytes under the given key.
func (c *MinioClient) UploadObject(ctx context.Context, key string, data []byte) error {
	_, err := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("minio upload failed for %s: %w", key, err)
	}
	return nil
}

var _ ObjectStorage = (*MinioClient)(nil)
