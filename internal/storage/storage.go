package storage

import (
	"context"
	"io"
)

// FileStore uploads a file and returns its public URL.
type FileStore interface {
	Upload(ctx context.Context, filename string, body io.Reader) (string, error)
}
