package services

import (
	"context"
	"time"

	"kriya/internal/apperr"
	"kriya/internal/catalog"
	"kriya/internal/models"
	"kriya/internal/repositories"
	"kriya/internal/session"

	"go.uber.org/zap"
)

// ProductService handles business logic related to products: the seller's
// listing management and the buyer-facing catalog views.
type ProductService struct {
	repo repositories.ProductRepository
	log  *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, log *zap.Logger) *ProductService {
	return &ProductService{
		repo: repo,
		log:  log,
	}
}

// ListAll retrieves all products.
func (s *ProductService) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// ListBySeller retrieves the products of one seller.
func (s *ProductService) ListBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	return s.repo.GetBySeller(ctx, sellerID)
}

// Get retrieves a single product by its ID.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Catalog is the filtered, sorted buyer view of all products.
func (s *ProductService) Catalog(ctx context.Context, q catalog.Query) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.View(products, q), nil
}

// Featured returns the first n products.
func (s *ProductService) Featured(ctx context.Context, n int) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Featured(products, n), nil
}

// Similar returns products in the same category as product id.
func (s *ProductService) Similar(ctx context.Context, id string, limit int) ([]models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Similar(products, *product, limit), nil
}

// SellerProducts is the seller dashboard listing.
func (s *ProductService) SellerProducts(ctx context.Context, seller *session.Session, term, status string) ([]models.Product, error) {
	if err := requireArtisan(seller); err != nil {
		return nil, err
	}
	switch status {
	case "", catalog.StatusAll, catalog.StatusActive, catalog.StatusDraft:
	default:
		return nil, apperr.InvalidField("status", "must be one of: all, active, draft")
	}
	products, err := s.repo.GetBySeller(ctx, seller.UserID)
	if err != nil {
		return nil, err
	}
	return catalog.SellerSearch(products, term, status), nil
}

// SellerMetrics summarizes the seller's listings.
func (s *ProductService) SellerMetrics(ctx context.Context, seller *session.Session) (catalog.Metrics, error) {
	if err := requireArtisan(seller); err != nil {
		return catalog.Metrics{}, err
	}
	products, err := s.repo.GetBySeller(ctx, seller.UserID)
	if err != nil {
		return catalog.Metrics{}, err
	}
	return catalog.SellerMetrics(products), nil
}

// Create validates product and stores it as a listing of seller.
func (s *ProductService) Create(ctx context.Context, seller *session.Session, product *models.Product) error {
	if err := requireArtisan(seller); err != nil {
		return err
	}
	product.ID = ""
	product.SellerID = seller.UserID
	product.SellerName = seller.Name
	// The store stamps listing times.
	product.CreatedAt, product.UpdatedAt = time.Time{}, time.Time{}
	if err := validateStruct(product); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}
	s.log.Info("product created", zap.String("product_id", product.ID), zap.String("seller_id", seller.UserID))
	return nil
}

// Update applies a partial update to one of seller's products.
func (s *ProductService) Update(ctx context.Context, seller *session.Session, id string, patch models.ProductPatch) (*models.Product, error) {
	if patch.Empty() {
		return nil, apperr.Invalid("no fields to update", nil)
	}
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	product, err := s.owned(ctx, seller, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(product)
	if err := validateStruct(product); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes one of seller's products.
func (s *ProductService) Delete(ctx context.Context, seller *session.Session, id string) error {
	if _, err := s.owned(ctx, seller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.String("product_id", id), zap.String("seller_id", seller.UserID))
	return nil
}

// owned loads product id and checks that seller listed it.
func (s *ProductService) owned(ctx context.Context, seller *session.Session, id string) (*models.Product, error) {
	if err := requireArtisan(seller); err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != seller.UserID {
		return nil, apperr.Forbidden("product %s belongs to another seller", id)
	}
	return product, nil
}

func requireArtisan(s *session.Session) error {
	if s == nil {
		return apperr.NotAuthenticated("no active session")
	}
	if !s.IsArtisan() {
		return apperr.Forbidden("only artisans can manage products")
	}
	return nil
}
