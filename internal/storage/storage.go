// Package storage is the blob-storage boundary used for profile photos.
package storage

import (
	"context"
	"io"
)

// BlobStore uploads opaque blobs and resolves them to retrievable URLs.
// Uploading to an existing key overwrites it; last write wins and there is
// no versioning.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}
