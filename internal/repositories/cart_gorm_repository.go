package repositories

import (
	"context"
	"errors"

	"kriya/internal/apperr"
	"kriya/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository stores carts as rows with the line items serialized to
// JSON, guarded by a version column.
type GORMCartRepository struct {
	db     *gorm.DB
	policy Policy
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB, policy Policy) *GORMCartRepository {
	return &GORMCartRepository{
		db:     db,
		policy: policy,
	}
}

// Get loads the owner's cart, or an empty one if none was saved yet.
func (r *GORMCartRepository) Get(ctx context.Context, ownerID string) (*models.Cart, error) {
	return do(ctx, r.policy, func(ctx context.Context) (*models.Cart, error) {
		var cart models.Cart
		if err := r.db.WithContext(ctx).First(&cart, "owner_id = ?", ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewCart(ownerID), nil
			}
			return nil, apperr.Storage(err, "failed to get cart for %s", ownerID)
		}
		if cart.Items == nil {
			cart.Items = []models.CartItem{}
		}
		return &cart, nil
	})
}

// Save writes the cart if nobody else saved it since it was read.
func (r *GORMCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	expected := cart.Version
	next := *cart
	next.Version = expected + 1
	if next.Items == nil {
		next.Items = []models.CartItem{}
	}

	err := exec(ctx, r.policy, func(ctx context.Context) error {
		db := r.db.WithContext(ctx)
		var res *gorm.DB
		if expected == 0 {
			res = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&next)
		} else {
			res = db.Model(&next).
				Where("version = ?", expected).
				Select("items", "version", "updated_at").
				Updates(&next)
		}
		if res.Error != nil {
			return apperr.Storage(res.Error, "failed to save cart for %s", cart.OwnerID)
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("cart for %s was modified concurrently", cart.OwnerID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cart.Version = next.Version
	cart.CreatedAt = next.CreatedAt
	cart.UpdatedAt = next.UpdatedAt
	return nil
}
