// Package storage holds the blob store abstraction used for service and
// certificate attachments. The database keeps only opaque object keys;
// downloads go through short-lived signed URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// BlobStore stores opaque byte objects under string keys.
type BlobStore interface {
	// Put uploads an object and returns the key it was stored under.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// SignedURL returns a time-limited download URL for the object.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds a collision-free key for an uploaded file, keeping the
// original extension so content-type sniffing on download still works.
func ObjectKey(prefix, filename string) string {
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), filepath.Ext(filename))
}
