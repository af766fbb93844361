package repositories

import (
	"context"

	"kriya/internal/models"
)

// CartRepository stores one cart document per owner.
//
// Get never reports a missing cart; it returns an empty cart at version 0.
// Save is conditional: it succeeds only if the stored version still equals
// cart.Version, then increments cart.Version. A lost race returns an
// apperr conflict.
type CartRepository interface {
	Get(ctx context.Context, ownerID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}
