// Package cache is the key-value layer the event store is kept in.
//
// A Store exposes point reads and batched writes. Backends apply a batch
// atomically when the underlying system offers a multi-key primitive
// (Redis MULTI/EXEC, a PostgreSQL transaction), so a reader never sees one
// key of a batch written without the others.
package cache

import (
	"context"
	"errors"
)

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = errors.New("cache: key not found")

// Op is a single write in a batch: Set when Delete is false.
type Op struct {
	Key    string
	Value  []byte
	Delete bool
}

// Set returns an Op storing value under key with no expiry.
func Set(key string, value []byte) Op {
	return Op{Key: key, Value: value}
}

// Del returns an Op removing key. Removing a missing key is not an error.
func Del(key string) Op {
	return Op{Key: key, Delete: true}
}

// Store is implemented by every backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Apply(ctx context.Context, ops ...Op) error
	Ping(ctx context.Context) error
	Close() error
}
