// Package kv provides the key-value backends the repository persists into.
// Every backend stores opaque byte values under string keys.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal key-value store. Get returns ErrNotFound for a missing
// key; Remove of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
