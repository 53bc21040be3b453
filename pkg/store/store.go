package store

import (
	"context"
	"fmt"
)

// Store is the read-only view of the key-value store that holds the Sidekiq state.
// Implementations are not required to be safe for concurrent use; one Store serves
// one sequence of reads.
type Store interface {
	// HashGetAll returns every field of the hash at key. A missing key yields an empty map.
	HashGetAll(ctx context.Context, key string) (map[string]string, error)
	// SetMembers returns the members of the set at key.
	SetMembers(ctx context.Context, key string) ([]string, error)
	// SequenceRange returns the elements of the list at key between start and stop, inclusive.
	SequenceRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	// ScoredSetRange returns the members of the sorted set at key between start and stop,
	// inclusive, ordered by ascending score.
	ScoredSetRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	// SequenceSize returns the length of the list at key.
	SequenceSize(ctx context.Context, key string) (int64, error)
	// ScoredSetSize returns the cardinality of the sorted set at key.
	ScoredSetSize(ctx context.Context, key string) (int64, error)
}

// Session is a Store bound to one connection. It must be closed after use.
type Session interface {
	Store
	Close() error
}

// Pool is a Store shared by the whole program that can hand out dedicated sessions.
type Pool interface {
	Store
	Ping(ctx context.Context) error
	Session() Session
}

// Error is returned for any failure of the underlying store.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
