package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-blog-clean-architecture/internal/apperr"
	"github.com/oksasatya/go-blog-clean-architecture/internal/domain/entity"
	"github.com/oksasatya/go-blog-clean-architecture/internal/uow"
)

// BoardTable is the uow backend for the boards table.
type BoardTable struct {
	pool *pgxpool.Pool
}

func NewBoardTable(pool *pgxpool.Pool) *BoardTable {
	return &BoardTable{pool: pool}
}

func (t *BoardTable) Select(ctx context.Context, id int64) (*entity.Board, error) {
	b := &entity.Board{}
	row := t.pool.QueryRow(ctx, `
		SELECT id, title, content, owner_id, created_at
		FROM boards
		WHERE id = $1
	`, id)
	if err := row.Scan(&b.ID, &b.Title, &b.Content, &b.OwnerID, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

// SelectAll returns every board, newest first (id DESC).
func (t *BoardTable) SelectAll(ctx context.Context) ([]*entity.Board, error) {
	rows, err := t.pool.Query(ctx, `
		SELECT id, title, content, owner_id, created_at
		FROM boards
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []*entity.Board
	for rows.Next() {
		b := &entity.Board{}
		if err := rows.Scan(&b.ID, &b.Title, &b.Content, &b.OwnerID, &b.CreatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (t *BoardTable) Insert(ctx context.Context, b *entity.Board) error {
	row := t.pool.QueryRow(ctx, `
		INSERT INTO boards (title, content, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, b.Title, b.Content, b.OwnerID)
	return row.Scan(&b.ID, &b.CreatedAt)
}

func (t *BoardTable) Update(ctx context.Context, id int64, changes map[string]any) error {
	query, args := buildUpdate("boards", changes, id)
	res, err := t.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (t *BoardTable) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := t.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func (t *BoardTable) Key(b *entity.Board) int64 { return b.ID }

// Diff reports the mutable columns that diverged from the load-time snapshot.
// owner_id and created_at are immutable and never appear in the result.
func (t *BoardTable) Diff(snapshot, current *entity.Board) map[string]any {
	changes := map[string]any{}
	if current.Title != snapshot.Title {
		changes["title"] = current.Title
	}
	if current.Content != snapshot.Content {
		changes["content"] = current.Content
	}
	return changes
}

var _ uow.Backend[int64, entity.Board] = (*BoardTable)(nil)
