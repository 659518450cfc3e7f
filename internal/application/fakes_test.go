package application

import (
	"context"
	"errors"
	"sort"

	"github.com/oksasatya/go-blog-clean-architecture/internal/apperr"
	"github.com/oksasatya/go-blog-clean-architecture/internal/domain/entity"
)

// In-memory stand-ins for the postgres tables. They record every UPDATE
// column set so tests can assert the minimal-flush property end to end.

type fakeUserTable struct {
	seq     int64
	rows    map[int64]entity.User
	updates []map[string]any
}

func newFakeUserTable() *fakeUserTable {
	return &fakeUserTable{rows: map[int64]entity.User{}}
}

func (t *fakeUserTable) Select(_ context.Context, id int64) (*entity.User, error) {
	r, ok := t.rows[id]
	if !ok {
		return nil, nil
	}
	cp := r
	return &cp, nil
}

func (t *fakeUserTable) SelectByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, r := range t.rows {
		if r.Username == username {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (t *fakeUserTable) Insert(_ context.Context, u *entity.User) error {
	if existing, _ := t.SelectByUsername(context.Background(), u.Username); existing != nil {
		return apperr.ErrConflict
	}
	t.seq++
	u.ID = t.seq
	t.rows[u.ID] = *u
	return nil
}

func (t *fakeUserTable) Update(_ context.Context, id int64, changes map[string]any) error {
	r, ok := t.rows[id]
	if !ok {
		return apperr.ErrNotFound
	}
	for col, val := range changes {
		switch col {
		case "username":
			r.Username = val.(string)
		case "password":
			r.Password = val.(string)
		case "email":
			r.Email = val.(string)
		default:
			return errors.New("unexpected column " + col)
		}
	}
	t.rows[id] = r
	t.updates = append(t.updates, changes)
	return nil
}

func (t *fakeUserTable) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := t.rows[id]; !ok {
		return 0, nil
	}
	delete(t.rows, id)
	return 1, nil
}

func (t *fakeUserTable) Key(u *entity.User) int64 { return u.ID }

func (t *fakeUserTable) Diff(snapshot, current *entity.User) map[string]any {
	changes := map[string]any{}
	if current.Username != snapshot.Username {
		changes["username"] = current.Username
	}
	if current.Password != snapshot.Password {
		changes["password"] = current.Password
	}
	if current.Email != snapshot.Email {
		changes["email"] = current.Email
	}
	return changes
}

type fakeBoardTable struct {
	seq     int64
	rows    map[int64]entity.Board
	updates []map[string]any
}

func newFakeBoardTable() *fakeBoardTable {
	return &fakeBoardTable{rows: map[int64]entity.Board{}}
}

func (t *fakeBoardTable) Select(_ context.Context, id int64) (*entity.Board, error) {
	r, ok := t.rows[id]
	if !ok {
		return nil, nil
	}
	cp := r
	return &cp, nil
}

func (t *fakeBoardTable) SelectAll(_ context.Context) ([]*entity.Board, error) {
	out := make([]*entity.Board, 0, len(t.rows))
	for _, r := range t.rows {
		cp := r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (t *fakeBoardTable) Insert(_ context.Context, b *entity.Board) error {
	t.seq++
	b.ID = t.seq
	t.rows[b.ID] = *b
	return nil
}

func (t *fakeBoardTable) Update(_ context.Context, id int64, changes map[string]any) error {
	r, ok := t.rows[id]
	if !ok {
		return apperr.ErrNotFound
	}
	for col, val := range changes {
		switch col {
		case "title":
			r.Title = val.(string)
		case "content":
			r.Content = val.(string)
		default:
			return errors.New("unexpected column " + col)
		}
	}
	t.rows[id] = r
	t.updates = append(t.updates, changes)
	return nil
}

func (t *fakeBoardTable) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := t.rows[id]; !ok {
		return 0, nil
	}
	delete(t.rows, id)
	return 1, nil
}

func (t *fakeBoardTable) Key(b *entity.Board) int64 { return b.ID }

func (t *fakeBoardTable) Diff(snapshot, current *entity.Board) map[string]any {
	changes := map[string]any{}
	if current.Title != snapshot.Title {
		changes["title"] = current.Title
	}
	if current.Content != snapshot.Content {
		changes["content"] = current.Content
	}
	return changes
}
