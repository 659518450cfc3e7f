// Package ownership is the authorization predicate layer: a resource may be
// mutated only by its owner. There is no admin override.
package ownership

// CanMutate reports whether requesterID may mutate a resource owned by
// ownerID. Callers must resolve that the resource exists before asking;
// the predicate is evaluated strictly before any field write or delete.
func CanMutate(requesterID, ownerID int64) bool {
	return requesterID == ownerID
}
