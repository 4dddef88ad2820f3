// Package kv provides the durable key-value mapping the inventory store
// persists its collections into. Values are JSON documents; keys are plain
// strings. Backends are interchangeable.
package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// Store is a durable mapping from a string key to a JSON value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
