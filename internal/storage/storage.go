// File path: internal/storage/storage.go

// Package storage abstracts the bulk object store holding the source
// datasets, the template catalog and the rendered output artifact.
package storage

import (
	"context"
	"io"
)

// ObjectStore is the narrow contract the pipeline needs from bulk storage.
type ObjectStore interface {
	// Get opens the object at key for reading. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Put writes the object at key, replacing any previous content.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}
