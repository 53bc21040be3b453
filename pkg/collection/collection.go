package collection

import (
	"context"
	"fmt"
	"sort"

	"github.com/pixelvide/sidemon/pkg/store"
)

// Kind selects how an ordered collection is stored.
type Kind int

const (
	// Sequence is a list kept in append order.
	Sequence Kind = iota
	// ScoredSet is a sorted set read in ascending score order.
	ScoredSet
)

func (k Kind) String() string {
	switch k {
	case Sequence:
		return "sequence"
	case ScoredSet:
		return "scored set"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Ref names an ordered collection of job documents.
type Ref struct {
	Kind Kind
	Key  string
}

func (r Ref) String() string { return r.Key }

// Registry is an unordered set of names.
type Registry string

// Reader reads raw elements out of the store, hiding which primitive backs a collection.
type Reader struct {
	store store.Store
}

// NewReader creates a Reader over s.
func NewReader(s store.Store) *Reader {
	return &Reader{store: s}
}

// ReadRange returns up to count raw elements starting at position start from the head.
// A negative count reads to the end; a zero count reads nothing.
func (r *Reader) ReadRange(ctx context.Context, ref Ref, start, count int64) ([]string, error) {
	if count == 0 {
		return []string{}, nil
	}
	stop := int64(-1)
	if count > 0 {
		stop = start + count - 1
	}

	switch ref.Kind {
	case Sequence:
		return r.store.SequenceRange(ctx, ref.Key, start, stop)
	case ScoredSet:
		return r.store.ScoredSetRange(ctx, ref.Key, start, stop)
	}
	return nil, fmt.Errorf("collection %q: unsupported kind %v", ref.Key, ref.Kind)
}

// LengthOf returns the number of elements in the collection.
func (r *Reader) LengthOf(ctx context.Context, ref Ref) (uint64, error) {
	var (
		n   int64
		err error
	)
	switch ref.Kind {
	case Sequence:
		n, err = r.store.SequenceSize(ctx, ref.Key)
	case ScoredSet:
		n, err = r.store.ScoredSetSize(ctx, ref.Key)
	default:
		return 0, fmt.Errorf("collection %q: unsupported kind %v", ref.Key, ref.Kind)
	}
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("collection %q: negative size %d", ref.Key, n)
	}
	return uint64(n), nil
}

// MembersOf returns the names in a registry, sorted.
func (r *Reader) MembersOf(ctx context.Context, reg Registry) ([]string, error) {
	members, err := r.store.SetMembers(ctx, string(reg))
	if err != nil {
		return nil, err
	}
	sort.Strings(members)
	return members, nil
}

// Fields returns every field of the hash at key.
func (r *Reader) Fields(ctx context.Context, key string) (map[string]string, error) {
	return r.store.HashGetAll(ctx, key)
}
