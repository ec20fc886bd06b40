package storage

import (
	"context"
	"io"
)

// UploadInput carries one object to be stored.
type UploadInput struct {
	Key         string
	ContentType string
	Body        io.Reader
	Size        int64
}

// Service abstracts the object store behind the upload endpoints.
type Service interface {
	PutObject(ctx context.Context, in UploadInput) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
