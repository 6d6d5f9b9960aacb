package domain

import "context"

// Repository defines persistence operations for carts. The closure-based
// mutators run under the store's per-key exclusive lock, making
// read-modify-write sequences atomic with respect to concurrent handlers on
// the same user id.
type Repository interface {
	// Get returns a snapshot of the user's cart, or ErrCartNotFound.
	Get(ctx context.Context, userID string) (*Cart, error)

	// Upsert applies fn to the user's cart, creating an empty cart first if
	// none exists, and returns the resulting snapshot.
	Upsert(ctx context.Context, userID string, fn func(*Cart) error) (*Cart, error)

	// Update applies fn to an existing cart, or returns ErrCartNotFound.
	Update(ctx context.Context, userID string, fn func(*Cart) error) (*Cart, error)

	// UpdateEach applies fn to every cart; fn reports whether it changed the
	// cart and needs it persisted. Used by the price-sync handler.
	UpdateEach(ctx context.Context, fn func(*Cart) bool) error
}
