package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: object not found")

// Storage persists photo blobs behind opaque tokens. Rows reference only the
// token, so the backing location can change between deployments without
// touching the database.
type Storage interface {
	// Store writes the blob and returns a freshly generated token.
	Store(ctx context.Context, data []byte, ext string) (string, error)
	// Retrieve returns the blob for a token, or ErrNotFound.
	Retrieve(ctx context.Context, token string) ([]byte, error)
	// Remove deletes the blob; used as compensating cleanup when a report
	// creation transaction rolls back after blobs were already written.
	Remove(ctx context.Context, token string) error
}
