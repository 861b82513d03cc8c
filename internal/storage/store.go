package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is the durable key-value store behind the persisted collections. It plays the
// part browser local storage plays for a web storefront: string keys, opaque values,
// a missing key reported as ErrNotFound.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
