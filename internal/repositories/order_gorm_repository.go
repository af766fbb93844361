package repositories

import (
	"context"
	"errors"

	"kriya/internal/apperr"
	"kriya/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db     *gorm.DB
	policy Policy
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB, policy Policy) *GORMOrderRepository {
	return &GORMOrderRepository{
		db:     db,
		policy: policy,
	}
}

// Create inserts a new order.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	return exec(ctx, r.policy, func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
			return apperr.Storage(err, "failed to create order")
		}
		return nil
	})
}

// GetByID retrieves an order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return do(ctx, r.policy, func(ctx context.Context) (*models.Order, error) {
		var order models.Order
		if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("order with ID %s not found", id)
			}
			return nil, apperr.Storage(err, "failed to get order by ID %s", id)
		}
		return &order, nil
	})
}
