package audit

import "context"

// Store persists audit entries. Implementations are append-only; nothing in
// this interface can edit or remove an entry.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]Entry, error)
}
