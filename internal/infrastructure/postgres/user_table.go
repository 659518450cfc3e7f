package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-blog-clean-architecture/internal/apperr"
	"github.com/oksasatya/go-blog-clean-architecture/internal/domain/entity"
	"github.com/oksasatya/go-blog-clean-architecture/internal/uow"
)

// UserTable is the uow backend for the users table.
type UserTable struct {
	pool *pgxpool.Pool
}

func NewUserTable(pool *pgxpool.Pool) *UserTable {
	return &UserTable{pool: pool}
}

func (t *UserTable) Select(ctx context.Context, id int64) (*entity.User, error) {
	u := &entity.User{}
	row := t.pool.QueryRow(ctx, `
		SELECT id, username, password, email, created_at
		FROM users
		WHERE id = $1
	`, id)
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// SelectByUsername supports the login and uniqueness-check lookups; it is not
// part of the uow contract because username is not the primary key.
func (t *UserTable) SelectByUsername(ctx context.Context, username string) (*entity.User, error) {
	u := &entity.User{}
	row := t.pool.QueryRow(ctx, `
		SELECT id, username, password, email, created_at
		FROM users
		WHERE username = $1
	`, username)
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (t *UserTable) Insert(ctx context.Context, u *entity.User) error {
	row := t.pool.QueryRow(ctx, `
		INSERT INTO users (username, password, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Username, u.Password, u.Email)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		// Close the lookup-then-insert race on the unique username index.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.ErrConflict
		}
		return err
	}
	return nil
}

func (t *UserTable) Update(ctx context.Context, id int64, changes map[string]any) error {
	query, args := buildUpdate("users", changes, id)
	res, err := t.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (t *UserTable) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := t.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func (t *UserTable) Key(u *entity.User) int64 { return u.ID }

// Diff reports the mutable columns that diverged from the load-time snapshot.
// ID and created_at are immutable and never appear in the result.
func (t *UserTable) Diff(snapshot, current *entity.User) map[string]any {
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

// buildUpdate renders "UPDATE <table> SET c1=$1, c2=$2 WHERE id=$n" for the
// given column set. Iteration order of the map does not matter to the row
// that results.
func buildUpdate(table string, changes map[string]any, id int64) (string, []any) {
	args := make([]any, 0, len(changes)+1)
	query := "UPDATE " + table + " SET "
	i := 1
	for col, val := range changes {
		if i > 1 {
			query += ", "
		}
		query += fmt.Sprintf("%s = $%d", col, i)
		args = append(args, val)
		i++
	}
	query += fmt.Sprintf(" WHERE id = $%d", i)
	args = append(args, id)
	return query, args
}

var _ uow.Backend[int64, entity.User] = (*UserTable)(nil)
