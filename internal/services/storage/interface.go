// File: internal/services/storage/interface.go
package storage

import (
	"context"
	"io"
	"time"
)

// DownloadURLValidity is how long a presigned download link stays usable.
const DownloadURLValidity = 7 * 24 * time.Hour

// ObjectStore persists raw uploaded files. Upload returns the object key
// and a durable URL; downloads go through time-limited presigned links.
type ObjectStore interface {
	Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (key string, url string, err error)
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
