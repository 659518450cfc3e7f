// Package apperr defines the expected, recoverable outcomes the service
// surfaces to its callers. Anything not listed here (notably backing-store
// connectivity failures) propagates unmodified and is treated as unexpected.
package apperr

import "errors"

var (
	// ErrNotFound means the entity is absent for the given key.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness constraint was violated (e.g. duplicate username).
	ErrConflict = errors.New("conflict")
	// ErrUnauthenticated means there is no valid session, or login credentials did not match.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the requester is authenticated but does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation means the input shape or content was invalid.
	ErrValidation = errors.New("validation failed")
)
