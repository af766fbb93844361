package services_test

import (
	"context"
	"testing"
	"time"

	"kriya/internal/apperr"
	"kriya/internal/catalog"
	"kriya/internal/models"
	"kriya/internal/services"
	"kriya/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var (
	artisan = &session.Session{UserID: "seller-1", Name: "Clayworks", Role: models.RoleArtisan}
	buyer   = &session.Session{UserID: "buyer-1", Name: "Asha", Role: models.RoleBuyer}
)

func TestProductService_Catalog(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, zap.NewNop())
	ctx := context.Background()

	products := []models.Product{
		{ID: "1", Name: "Glazed Bowl", Category: "Pottery", Price: 1000},
		{ID: "2", Name: "Madhubani Print", Category: "Art", Price: 500, Discount: 50},
	}
	mockRepo.On("GetAll", ctx).Return(products, nil)

	q := catalog.DefaultQuery()
	q.Category = "Art"
	view, err := service.Catalog(ctx, q)
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, "2", view[0].ID)

	featured, err := service.Featured(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, featured, 1)

	mockRepo.On("GetByID", ctx, "1").Return(&products[0], nil).Once()
	similar, err := service.Similar(ctx, "1", catalog.DefaultSimilarLimit)
	require.NoError(t, err)
	assert.Empty(t, similar)
	assert.NotNil(t, similar)
}

func TestProductService_Create(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.SellerID == "seller-1" && p.SellerName == "Clayworks" && p.CreatedAt.IsZero() && p.UpdatedAt.IsZero()
	})).Return(nil).Once()

	pinned := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	product := &models.Product{
		Name: "Glazed Bowl", Price: 1000, Discount: 15, Category: "Pottery",
		SellerID: "spoofed", CreatedAt: pinned, UpdatedAt: pinned,
	}
	require.NoError(t, service.Create(ctx, artisan, product))
	assert.Equal(t, "seller-1", product.SellerID)

	// Invalid input never reaches the store.
	bad := &models.Product{Name: "X", Price: 0, Discount: 120, Category: "Toys", Image: "not a url"}
	err := service.Create(ctx, artisan, bad)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, "must be greater than 0", appErr.Fields["price"])
	assert.Contains(t, appErr.Fields, "discount")
	assert.Contains(t, appErr.Fields, "category")
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "image")

	err = service.Create(ctx, buyer, &models.Product{Name: "Glazed Bowl", Price: 1000, Category: "Pottery"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateEnforcesOwnership(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, zap.NewNop())
	ctx := context.Background()

	stored := &models.Product{ID: "1", Name: "Glazed Bowl", Price: 1000, Category: "Pottery", SellerID: "seller-1"}
	foreign := &models.Product{ID: "2", Name: "Silk Scarf", Price: 700, Category: "Textiles", SellerID: "seller-2"}
	mockRepo.On("GetByID", ctx, "1").Return(stored, nil)
	mockRepo.On("GetByID", ctx, "2").Return(foreign, nil)
	mockRepo.On("GetByID", ctx, "99").Return(nil, apperr.NotFound("product with ID 99 not found"))
	mockRepo.On("Update", ctx, stored).Return(nil).Once()

	discount := 20.0
	updated, err := service.Update(ctx, artisan, "1", models.ProductPatch{Discount: &discount})
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.Discount)
	assert.Equal(t, 800.0, updated.EffectivePrice())

	_, err = service.Update(ctx, artisan, "2", models.ProductPatch{Discount: &discount})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = service.Update(ctx, artisan, "99", models.ProductPatch{Discount: &discount})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = service.Update(ctx, artisan, "1", models.ProductPatch{})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	tooMuch := 101.0
	_, err = service.Update(ctx, artisan, "1", models.ProductPatch{Discount: &tooMuch})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	mockRepo.AssertExpectations(t)
}

func TestProductService_Delete(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "1").Return(&models.Product{ID: "1", SellerID: "seller-1"}, nil)
	mockRepo.On("GetByID", ctx, "2").Return(&models.Product{ID: "2", SellerID: "seller-2"}, nil)
	mockRepo.On("Delete", ctx, "1").Return(nil).Once()

	assert.NoError(t, service.Delete(ctx, artisan, "1"))
	assert.ErrorIs(t, service.Delete(ctx, artisan, "2"), apperr.ErrForbidden)
	mockRepo.AssertNotCalled(t, "Delete", ctx, "2")
}

func TestProductService_SellerDashboard(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("GetBySeller", ctx, "seller-1").Return([]models.Product{
		{ID: "1", Name: "Brass Lamp", Category: "Decor", Price: 1000, Discount: 10},
		{ID: "2", Name: "Brass Bell", Category: "Decor", Price: 300},
		{ID: "3", Name: "Silk Scarf", Category: "Textiles", Price: 700},
	}, nil)

	found, err := service.SellerProducts(ctx, artisan, "brass", catalog.StatusAll)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = service.SellerProducts(ctx, artisan, "", "archived")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	m, err := service.SellerMetrics(ctx, artisan)
	require.NoError(t, err)
	assert.Equal(t, catalog.Metrics{TotalProducts: 3, TotalValue: 1900, Categories: 2}, m)

	_, err = service.SellerMetrics(ctx, buyer)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
