package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound reports that the object store has no object under the
// requested key. All other store failures are returned wrapped as-is.
var ErrObjectNotFound = errors.New("object not found in store")

// Storage defines the object-store operations used by this service.
type Storage interface {
	// Put stores content from the reader under the given key.
	// size is the expected content length (-1 if unknown).
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Delete removes the object with the given key.
	Delete(ctx context.Context, key string) error

	// Exists checks whether an object with the given key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// ObjectURL returns the public URL of the object with the given key.
	// The URL is derived from configuration, not a store round trip.
	ObjectURL(key string) string

	// Bucket returns the configured bucket name.
	Bucket() string
}
