package domain

// CanMutate is the single ownership rule gating every entity mutation:
// only the owning (or authoring) user may change an entity. Unauthenticated
// requesters never pass.
func CanMutate(requesterID, ownerID string) bool {
	return requesterID != "" && requesterID == ownerID
}
