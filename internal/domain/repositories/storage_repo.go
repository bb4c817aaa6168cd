package repositories

import (
	"context"
	"time"
)

// MediaStore is the source of original images, addressed by opaque file id.
type MediaStore interface {
	Fetch(ctx context.Context, fileID string) (data []byte, contentType string, err error)
}

// ObjectStorage hosts normalized images at public URLs. Upload overwrites an
// existing object at the same path.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	PublicURL(path string) string
	DeleteOlderThan(ctx context.Context, prefix string, maxAge time.Duration) (int, error)
}
