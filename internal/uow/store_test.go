package uow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-clean-architecture/internal/apperr"
)

type note struct {
	ID    int64
	Title string
	Body  string
}

// fakeBackend records every statement the store issues against it.
type fakeBackend struct {
	seq     int64
	rows    map[int64]note
	selects int
	updates []map[string]any
	deletes int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{rows: map[int64]note{}}
}

func (b *fakeBackend) Select(_ context.Context, id int64) (*note, error) {
	b.selects++
	r, ok := b.rows[id]
	if !ok {
		return nil, nil
	}
	cp := r
	return &cp, nil
}

func (b *fakeBackend) Insert(_ context.Context, n *note) error {
	b.seq++
	n.ID = b.seq
	b.rows[n.ID] = *n
	return nil
}

func (b *fakeBackend) Update(_ context.Context, id int64, changes map[string]any) error {
	r, ok := b.rows[id]
	if !ok {
		return apperr.ErrNotFound
	}
	for col, val := range changes {
		switch col {
		case "title":
			r.Title = val.(string)
		case "body":
			r.Body = val.(string)
		default:
			return errors.New("unexpected column " + col)
		}
	}
	b.rows[id] = r
	b.updates = append(b.updates, changes)
	return nil
}

func (b *fakeBackend) Delete(_ context.Context, id int64) (int64, error) {
	b.deletes++
	if _, ok := b.rows[id]; !ok {
		return 0, nil
	}
	delete(b.rows, id)
	return 1, nil
}

func (b *fakeBackend) Key(n *note) int64 { return n.ID }

func (b *fakeBackend) Diff(snapshot, current *note) map[string]any {
	changes := map[string]any{}
	if current.Title != snapshot.Title {
		changes["title"] = current.Title
	}
	if current.Body != snapshot.Body {
		changes["body"] = current.Body
	}
	return changes
}

func seeded(t *testing.T) (*fakeBackend, *Store[int64, note]) {
	t.Helper()
	b := newFakeBackend()
	require.NoError(t, b.Insert(context.Background(), &note{Title: "a", Body: "x"}))
	return b, NewStore[int64, note](b)
}

func TestLoad_AbsenceIsNotAnError(t *testing.T) {
	_, s := seeded(t)
	n, ok, err := s.Load(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, n)
}

func TestLoad_ReusesTrackedInstance(t *testing.T) {
	b, s := seeded(t)
	ctx := context.Background()

	first, ok, err := s.Load(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)

	second, ok, err := s.Load(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Same(t, first, second, "same key within one unit must share one instance")
	require.Equal(t, 1, b.selects, "second load must not re-query")
}

func TestFlush_TouchesOnlyChangedFields(t *testing.T) {
	b, s := seeded(t)
	ctx := context.Background()

	n, _, err := s.Load(ctx, 1)
	require.NoError(t, err)
	n.Title = "b"

	require.NoError(t, s.Flush(ctx))
	require.Len(t, b.updates, 1)
	require.Equal(t, map[string]any{"title": "b"}, b.updates[0])
	require.Equal(t, "x", b.rows[1].Body)
}

func TestFlush_NoChangesNoStatement(t *testing.T) {
	b, s := seeded(t)
	ctx := context.Background()

	_, _, err := s.Load(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, s.Flush(ctx))
	require.Empty(t, b.updates)
}

func TestFlush_RefreshesSnapshot(t *testing.T) {
	b, s := seeded(t)
	ctx := context.Background()

	n, _, err := s.Load(ctx, 1)
	require.NoError(t, err)
	n.Title = "b"
	require.NoError(t, s.Flush(ctx))
	require.Len(t, b.updates, 1)

	// nothing further changed, so the second flush is a no-op
	require.NoError(t, s.Flush(ctx))
	require.Len(t, b.updates, 1)
}

func TestUpdate_MissingKey(t *testing.T) {
	_, s := seeded(t)
	_, err := s.Update(context.Background(), 42, func(n *note) { n.Title = "b" })
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdate_MutatesTrackedInstance(t *testing.T) {
	b, s := seeded(t)
	ctx := context.Background()

	loaded, _, err := s.Load(ctx, 1)
	require.NoError(t, err)

	updated, err := s.Update(ctx, 1, func(n *note) { n.Body = "y" })
	require.NoError(t, err)
	require.Same(t, loaded, updated)

	require.NoError(t, s.Flush(ctx))
	require.Equal(t, []map[string]any{{"body": "y"}}, b.updates)
}

func TestInsert_TransitionsToTracked(t *testing.T) {
	b, s := seeded(t)
	ctx := context.Background()

	n := &note{Title: "new", Body: "z"}
	require.NoError(t, s.Insert(ctx, n))
	require.Equal(t, int64(2), n.ID, "generated key must be visible on the caller's instance")

	got, ok, err := s.Load(ctx, n.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Same(t, n, got)

	n.Body = "zz"
	require.NoError(t, s.Flush(ctx))
	require.Equal(t, []map[string]any{{"body": "zz"}}, b.updates)
}

func TestDelete_MissingKeyIsNotFound(t *testing.T) {
	_, s := seeded(t)
	err := s.Delete(context.Background(), 42)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete_RemovesRowAndTracking(t *testing.T) {
	b, s := seeded(t)
	ctx := context.Background()

	_, _, err := s.Load(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, 1))

	n, ok, err := s.Load(ctx, 1)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, n)

	// the deleted entity must not resurface at flush time
	require.NoError(t, s.Flush(ctx))
	require.Empty(t, b.updates)
}
