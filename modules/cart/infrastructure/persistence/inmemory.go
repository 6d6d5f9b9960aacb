// Package persistence implements the cart repository.
package persistence

import (
	"context"
	"sync"

	"github.com/rai/commerce-saga-go/modules/cart/domain"
)

// InMemoryRepository stores carts in a mutex-guarded map. The closure-based
// mutators run entirely under the lock, so read-modify-write sequences are
// atomic with respect to concurrent handlers.
type InMemoryRepository struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[string]*domain.Cart)}
}

func (r *InMemoryRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cart.Clone(), nil
}

func (r *InMemoryRepository) Upsert(ctx context.Context, userID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		cart = domain.New(userID)
	}

	// Mutate a copy and swap on success so a failing mutator can never
	// leave a partial write behind.
	updated := cart.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	r.carts[userID] = updated
	return updated.Clone(), nil
}

func (r *InMemoryRepository) Update(ctx context.Context, userID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}

	updated := cart.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	r.carts[userID] = updated
	return updated.Clone(), nil
}

func (r *InMemoryRepository) UpdateEach(ctx context.Context, fn func(*domain.Cart) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cart := range r.carts {
		fn(cart)
	}
	return nil
}

var _ domain.Repository = (*InMemoryRepository)(nil)
