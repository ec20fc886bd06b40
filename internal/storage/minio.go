package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"clubverse-backend/internal/config"
)

// MinioClient implements Service on a MinIO (or any S3-compatible) bucket.
type MinioClient struct {
	core      *minio.Client
	bucket    string
	publicURL string
}

func NewMinioClient(ctx context.Context, cfg config.StorageConfig) (*MinioClient, error) {
	core, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	if err := ensureBucket(ctx, core, cfg.Bucket); err != nil {
		return nil, fmt.Errorf("failed to prepare bucket %q: %w", cfg.Bucket, err)
	}

	return &MinioClient{core: core, bucket: cfg.Bucket, publicURL: cfg.PublicURL}, nil
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
}

func (c *MinioClient) PutObject(ctx context.Context, in UploadInput) (string, error) {
	_, err := c.core.PutObject(ctx, c.bucket, in.Key, in.Body, in.Size,
		minio.PutObjectOptions{ContentType: in.ContentType})
	if err != nil {
		return "", err
	}
	return c.objectURL(in.Key), nil
}

func (c *MinioClient) DeleteObject(ctx context.Context, key string) error {
	return c.core.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
}

func (c *MinioClient) objectURL(key string) string {
	key = strings.TrimLeft(key, "/")
	if c.publicURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(c.publicURL, "/"), key)
	}

	endpoint := c.core.EndpointURL()
	if endpoint != nil {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(endpoint.String(), "/"), c.bucket, key)
	}

	return fmt.Sprintf("/%s/%s", c.bucket, key)
}

var _ Service = (*MinioClient)(nil)
