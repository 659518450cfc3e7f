// Package uow implements a request-scoped unit of work over a single backing
// table. Entities loaded through a Store are tracked together with a value
// snapshot taken at load time; Flush compares each tracked entity against its
// snapshot and issues one minimal UPDATE per entity, touching only the columns
// that actually changed. A Store must not outlive the request that created it.
package uow

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-blog-clean-architecture/internal/apperr"
)

// Backend is the per-table persistence contract a Store drives. Implementations
// live in the infrastructure layer and own the column mapping.
type Backend[K comparable, E any] interface {
	// Select fetches the entity for key. Absence is (nil, nil), not an error.
	Select(ctx context.Context, key K) (*E, error)
	// Insert persists a transient entity and writes the generated key (and any
	// database-assigned columns) back into it.
	Insert(ctx context.Context, e *E) error
	// Update applies the given column set to the row identified by key.
	Update(ctx context.Context, key K, changes map[string]any) error
	// Delete removes the row for key and reports how many rows matched.
	Delete(ctx context.Context, key K) (int64, error)
	// Key extracts the primary key from an entity.
	Key(e *E) K
	// Diff returns the columns whose current value differs from the snapshot.
	Diff(snapshot, current *E) map[string]any
}

type tracked[E any] struct {
	current  *E
	snapshot E
}

// Store tracks entities of one table for the duration of a unit of work.
type Store[K comparable, E any] struct {
	backend Backend[K, E]
	live    map[K]*tracked[E]
}

func NewStore[K comparable, E any](b Backend[K, E]) *Store[K, E] {
	return &Store[K, E]{backend: b, live: make(map[K]*tracked[E])}
}

// Load returns the tracked instance for key, querying the backend only on
// first access. A key already live in this unit returns the identical
// in-memory instance, so every read and write within the request targets the
// same entity. Absence is reported via the bool, not an error.
func (s *Store[K, E]) Load(ctx context.Context, key K) (*E, bool, error) {
	if t, ok := s.live[key]; ok {
		return t.current, true, nil
	}
	e, err := s.backend.Select(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if e == nil {
		return nil, false, nil
	}
	s.live[key] = &tracked[E]{current: e, snapshot: *e}
	return e, true, nil
}

// Update loads the entity for key (reusing an already-tracked instance),
// applies mutate to it, and leaves the result tracked for the next Flush.
// A missing key yields apperr.ErrNotFound.
func (s *Store[K, E]) Update(ctx context.Context, key K, mutate func(*E)) (*E, error) {
	e, ok, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrNotFound
	}
	mutate(e)
	return e, nil
}

// Insert persists a transient entity and transitions it to tracked. The
// caller keeps holding the same instance the store tracks; the generated key
// is visible on it after Insert returns.
func (s *Store[K, E]) Insert(ctx context.Context, e *E) error {
	if err := s.backend.Insert(ctx, e); err != nil {
		return err
	}
	s.live[s.backend.Key(e)] = &tracked[E]{current: e, snapshot: *e}
	return nil
}

// Delete removes the row for key. Zero matched rows yields apperr.ErrNotFound
// so "already absent" stays distinguishable from success; any tracking for the
// key is dropped either way.
func (s *Store[K, E]) Delete(ctx context.Context, key K) error {
	delete(s.live, key)
	n, err := s.backend.Delete(ctx, key)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Flush is the commit boundary of the unit of work. Each tracked entity whose
// fields diverged from its snapshot produces exactly one UPDATE carrying
// exactly the changed columns; unchanged entities produce no statement.
// Snapshots are refreshed after a successful write, so a second Flush with no
// further mutation is a no-op.
func (s *Store[K, E]) Flush(ctx context.Context) error {
	for key, t := range s.live {
		changes := s.backend.Diff(&t.snapshot, t.current)
		if len(changes) == 0 {
			continue
		}
		if err := s.backend.Update(ctx, key, changes); err != nil {
			return fmt.Errorf("flush %v: %w", key, err)
		}
		t.snapshot = *t.current
	}
	return nil
}
