package repositories

import (
	"context"
	"sync"
	"time"

	"kriya/internal/apperr"
	"kriya/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string]models.Cart
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
	}
}

// Get returns a copy of the owner's cart.
func (r *MockCartRepository) Get(ctx context.Context, ownerID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.carts[ownerID]
	if !ok {
		return models.NewCart(ownerID), nil
	}
	stored.Items = stored.Snapshot()
	return &stored, nil
}

// Save stores a copy of cart if its version is current.
func (r *MockCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.carts[cart.OwnerID]
	if ok && stored.Version != cart.Version || !ok && cart.Version != 0 {
		return apperr.Conflict("cart for %s was modified concurrently", cart.OwnerID)
	}

	now := time.Now()
	if !ok {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	cart.Version++

	next := *cart
	next.Items = cart.Snapshot()
	r.carts[cart.OwnerID] = next
	return nil
}
