// Package session holds the server-side association between opaque tokens and
// authenticated principals. A token maps to at most one principal; Set
// replaces the value wholesale (used at login and again after any self-update
// of the principal, so authorization never sees a stale copy) and Invalidate
// drops the association entirely.
//
// Token lifetime and transport (cookies) belong to the HTTP layer; only the
// get/set/invalidate state machine lives here.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/oksasatya/go-blog-clean-architecture/internal/domain/entity"
)

// Store maps tokens to principals. Get reporting ok=false means the token is
// anonymous. Concurrent Sets on the same token are last-write-wins.
type Store interface {
	Get(ctx context.Context, token string) (entity.User, bool, error)
	Set(ctx context.Context, token string, u entity.User) error
	Invalidate(ctx context.Context, token string) error
}

// NewToken mints an opaque session token.
func NewToken() string {
	return uuid.NewString()
}
