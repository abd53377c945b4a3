package session

import "context"

// Store is a keyed slot holding the serialized session record.
type Store interface {
	// Get returns the stored value or ErrSessionNotFound when the slot is empty.
	Get(ctx context.Context, key string) (string, error)

	// Set replaces the stored value.
	Set(ctx context.Context, key, value string) error

	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context, key string) error
}
