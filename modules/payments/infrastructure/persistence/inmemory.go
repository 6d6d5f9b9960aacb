// Package persistence provides payment repository implementations.
package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rai/commerce-saga-go/modules/payments/domain"
)

// InMemoryRepository is a mutex-guarded in-process payment store.
type InMemoryRepository struct {
	mu       sync.Mutex
	payments map[string]*domain.Payment
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{payments: make(map[string]*domain.Payment)}
}

func (r *InMemoryRepository) Get(ctx context.Context, paymentID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentNotFound, paymentID)
	}
	return payment.Clone(), nil
}

func (r *InMemoryRepository) GetByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *domain.Payment
	for _, payment := range r.payments {
		if payment.OrderID != orderID {
			continue
		}
		if latest == nil || payment.CreatedAt.After(latest.CreatedAt) {
			latest = payment
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: order %s", domain.ErrPaymentNotFound, orderID)
	}
	return latest.Clone(), nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*domain.Payment, 0, len(r.payments))
	for _, payment := range r.payments {
		result = append(result, payment.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.payments[payment.PaymentID] = payment.Clone()
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, paymentID string, fn func(*domain.Payment) error) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentNotFound, paymentID)
	}

	// Mutate a copy and swap on success so a failing mutator can never
	// leave a partial write behind.
	updated := payment.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	r.payments[paymentID] = updated
	return updated.Clone(), nil
}

var _ domain.Repository = (*InMemoryRepository)(nil)
