package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrNotFound = errors.New("file not found")

type FileStorage interface {
	// Upload stores file under path and returns the key to persist.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a stored file by key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// GetURL returns a URL the file can be fetched from.
	GetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
