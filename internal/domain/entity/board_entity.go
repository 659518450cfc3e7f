package entity

import (
	"time"

	"github.com/oksasatya/go-blog-clean-architecture/internal/domain/ownership"
)

// Board is a text post owned by a single user.
// OwnerID and CreatedAt are set at creation and never change; Title and
// Content may only be mutated by the owner.
type Board struct {
	ID        int64
	Title     string
	Content   string
	OwnerID   int64
	CreatedAt time.Time
}

// IsOwner reports whether the given user may mutate or delete this board.
func (b *Board) IsOwner(userID int64) bool {
	return ownership.CanMutate(userID, b.OwnerID)
}
