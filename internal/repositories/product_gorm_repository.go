package repositories

import (
	"context"
	"errors"

	"kriya/internal/apperr"
	"kriya/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db     *gorm.DB
	policy Policy
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB, policy Policy) *GORMProductRepository {
	return &GORMProductRepository{
		db:     db,
		policy: policy,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return do(ctx, r.policy, func(ctx context.Context) ([]models.Product, error) {
		var products []models.Product
		if err := r.db.WithContext(ctx).Order("created_at, id").Find(&products).Error; err != nil {
			return nil, apperr.Storage(err, "failed to get all products")
		}
		return products, nil
	})
}

// GetBySeller retrieves the products owned by sellerID.
func (r *GORMProductRepository) GetBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	return do(ctx, r.policy, func(ctx context.Context) ([]models.Product, error) {
		var products []models.Product
		err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).Order("created_at, id").Find(&products).Error
		if err != nil {
			return nil, apperr.Storage(err, "failed to get products for seller %s", sellerID)
		}
		return products, nil
	})
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return do(ctx, r.policy, func(ctx context.Context) (*models.Product, error) {
		var product models.Product
		if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("product with ID %s not found", id)
			}
			return nil, apperr.Storage(err, "failed to get product by ID %s", id)
		}
		return &product, nil
	})
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	return exec(ctx, r.policy, func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
			return apperr.Storage(err, "failed to create product")
		}
		return nil
	})
}

// Update writes every field of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	return exec(ctx, r.policy, func(ctx context.Context) error {
		// Select("*") writes zero values too, and unlike Save never inserts.
		res := r.db.WithContext(ctx).Model(product).Select("*").Omit("id", "created_at").Updates(product)
		if res.Error != nil {
			return apperr.Storage(res.Error, "failed to update product")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("product with ID %s not found for update", product.ID)
		}
		return nil
	})
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	return exec(ctx, r.policy, func(ctx context.Context) error {
		res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return apperr.Storage(res.Error, "failed to delete product")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("product with ID %s not found for deletion", id)
		}
		return nil
	})
}
