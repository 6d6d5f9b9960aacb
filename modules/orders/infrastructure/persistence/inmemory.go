// Package persistence provides order repository implementations.
package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rai/commerce-saga-go/modules/orders/domain"
)

// InMemoryRepository is a mutex-guarded in-process order store.
type InMemoryRepository struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[string]*domain.Order)}
}

func (r *InMemoryRepository) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	return order.Clone(), nil
}

func (r *InMemoryRepository) List(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if status != "" && order.Status != status {
			continue
		}
		result = append(result, order.Clone())
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *InMemoryRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			result = append(result, order.Clone())
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.OrderID]; exists {
		return fmt.Errorf("%w: %s", domain.ErrOrderExists, order.OrderID)
	}
	r.orders[order.OrderID] = order.Clone()
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, orderID string, fn func(*domain.Order) error) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}

	// Mutate a copy and swap on success so a failing mutator can never
	// leave a partial write behind.
	updated := order.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	r.orders[orderID] = updated
	return updated.Clone(), nil
}

func sortNewestFirst(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

var _ domain.Repository = (*InMemoryRepository)(nil)
