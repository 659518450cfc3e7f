package entity

import (
	"time"
)

// User is the aggregate root for the user domain
// Passwords are stored as bcrypt hashes in Password field
//
// ID is generated by the database on first persist and never changes.
// Username is unique across live records; the only field mutable after
// registration is Password, via the authenticated self-update path.
type User struct {
	ID        int64
	Username  string
	Password  string
	Email     string
	CreatedAt time.Time
}
