package object

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for storage keys that escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// Stored describes an object written by Save.
type Stored struct {
	Key       string
	SizeBytes int64
	MimeType  string
}

// ObjectStore keeps raw uploads, namespaced by a hash of the owner ID.
type ObjectStore interface {
	Save(ctx context.Context, ownerID, fileName string, r io.Reader) (Stored, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
