package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no value is stored under a key.
var ErrNotFound = errors.New("state key not found")

// StateStore is a durable string key/value store for client state. Its
// semantics mirror browser localStorage: one value per key, last write wins.
type StateStore interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Close() error
}
