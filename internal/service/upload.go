package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"clubverse-backend/internal/storage"

	"github.com/google/uuid"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type uploadService struct {
	store        storage.Service
	maxAvatarLen int64
	maxImageLen  int64
}

func NewUploadService(store storage.Service, maxAvatarMB, maxImageMB int64) UploadService {
	return &uploadService{
		store:        store,
		maxAvatarLen: maxAvatarMB << 20,
		maxImageLen:  maxImageMB << 20,
	}
}

// UploadImage stores an image under a kind-specific prefix and returns its
// public URL. kind selects the prefix and size cap: "avatars" is capped
// tighter than "posts" and "events".
func (s *uploadService) UploadImage(ctx context.Context, kind, filename, contentType string, size int64, body io.Reader) (string, error) {
	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
	}

	var limit int64
	switch kind {
	case "avatars":
		limit = s.maxAvatarLen
	case "posts", "events":
		limit = s.maxImageLen
	default:
		return "", fmt.Errorf("%w: unknown upload kind %q", ErrUnsupportedFileType, kind)
	}
	if size > limit {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, limit)
	}

	key := fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), ext)
	return s.store.PutObject(ctx, storage.UploadInput{
		Key:         key,
		ContentType: contentType,
		Body:        body,
		Size:        size,
	})
}

// DeleteImage removes a previously uploaded object given its public URL.
func (s *uploadService) DeleteImage(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, rawURL)
	}

	// The key is the trailing <kind>/<uuid>.<ext> portion of the path.
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, rawURL)
	}
	key := path.Join(parts[len(parts)-2], parts[len(parts)-1])
	return s.store.DeleteObject(ctx, key)
}
