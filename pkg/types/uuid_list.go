package types

import "github.com/google/uuid"

// UUIDList is a jsonb-serialized list of identifiers (promotion scoping).
type UUIDList []uuid.UUID

// Contains reports whether id is present in the list.
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, candidate := range l {
		if candidate == id {
			return true
		}
	}
	return false
}
