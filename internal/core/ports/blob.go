// internal/core/ports/blob.go
package ports

import (
	"context"
	"io"
)

// BlobStore defines the interface for backup object storage
type BlobStore interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}
