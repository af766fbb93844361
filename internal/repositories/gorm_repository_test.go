package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"kriya/internal/apperr"
	"kriya/internal/models"
	"kriya/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openDB opens a private in-memory SQLite database for one test.
func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Cart{}, &models.Order{}, &models.User{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestGORMProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMProductRepository(openDB(t), repositories.DefaultPolicy)

	bowl := &models.Product{Name: "Glazed Bowl", Price: 1000, Category: "Pottery", SellerID: "s1", SellerName: "Clayworks"}
	artPrint := &models.Product{Name: "Madhubani Print", Price: 500, Discount: 50, Category: "Art", SellerID: "s2"}
	require.NoError(t, repo.Create(ctx, bowl))
	require.NoError(t, repo.Create(ctx, artPrint))
	assert.NotEmpty(t, bowl.ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := repo.GetBySeller(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, bowl.ID, mine[0].ID)

	bowl.Discount = 0
	bowl.Price = 1200
	require.NoError(t, repo.Update(ctx, bowl))
	got, err := repo.GetByID(ctx, bowl.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, got.Price)
	assert.Equal(t, "Clayworks", got.SellerName)

	require.NoError(t, repo.Delete(ctx, bowl.ID))
	_, err = repo.GetByID(ctx, bowl.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	err = repo.Delete(ctx, bowl.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	err = repo.Update(ctx, &models.Product{ID: "missing", Name: "Nothing", Price: 1, Category: "Art", SellerID: "s1"})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestGORMCartRepository_ConditionalSave(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMCartRepository(openDB(t), repositories.DefaultPolicy)

	cart, err := repo.Get(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cart.Version)
	assert.Empty(t, cart.Items)

	cart.Add(models.CartItem{ProductID: "p1", Name: "Vase", Price: 2000, Discount: 10}, 2)
	require.NoError(t, repo.Save(ctx, cart))
	assert.Equal(t, int64(1), cart.Version)

	stale, err := repo.Get(ctx, "buyer-1")
	require.NoError(t, err)
	fresh, err := repo.Get(ctx, "buyer-1")
	require.NoError(t, err)
	require.Len(t, fresh.Items, 1)
	assert.Equal(t, 2, fresh.Items[0].Quantity)

	fresh.Add(models.CartItem{ProductID: "p1"}, 1)
	require.NoError(t, repo.Save(ctx, fresh))

	stale.Add(models.CartItem{ProductID: "p1"}, 5)
	err = repo.Save(ctx, stale)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	final, err := repo.Get(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Equal(t, 3, final.ItemCount())
	assert.Equal(t, int64(2), final.Version)

	racing := models.NewCart("buyer-1")
	racing.Add(models.CartItem{ProductID: "p9"}, 1)
	err = repo.Save(ctx, racing)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "a second first-save loses")

	final.Clear()
	require.NoError(t, repo.Save(ctx, final))
	cleared, err := repo.Get(ctx, "buyer-1")
	require.NoError(t, err)
	assert.NotNil(t, cleared.Items)
	assert.Empty(t, cleared.Items)
}

func TestGORMOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMOrderRepository(openDB(t), repositories.DefaultPolicy)

	order := &models.Order{
		UserID:          "buyer-1",
		Items:           []models.CartItem{{ID: "l1", ProductID: "p1", Price: 2000, Discount: 10, Quantity: 2}},
		TotalAmount:     3600,
		Status:          models.OrderStatusPending,
		PaymentMethod:   "card",
		ShippingAddress: "Addr 1",
	}
	require.NoError(t, repo.Create(ctx, order))
	require.NotEmpty(t, order.ID)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 3600.0, got.TotalAmount)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)

	_, err = repo.GetByID(ctx, "nope")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestGORMUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMUserRepository(openDB(t), repositories.DefaultPolicy)

	user := &models.User{Email: "Asha@Example.com", Name: "Asha", Password: "hash", Role: models.RoleArtisan}
	require.NoError(t, repo.Create(ctx, user))

	byEmail, err := repo.GetByEmail(ctx, "asha@example.COM")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleArtisan, byID.Role)

	_, err = repo.GetByEmail(ctx, "ghost@example.com")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestMockCartRepository_IsolatesCopies(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockCartRepository()

	cart, err := repo.Get(ctx, "buyer-1")
	require.NoError(t, err)
	cart.Add(models.CartItem{ProductID: "p1"}, 1)
	require.NoError(t, repo.Save(ctx, cart))

	cart.Items[0].Quantity = 99

	stored, err := repo.Get(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Items[0].Quantity)

	stale := *stored
	stale.Version = 0
	err = repo.Save(ctx, &stale)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestMockProductRepository_GetAll(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockProductRepository()

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &models.Product{Name: name, SellerID: "s1"}))
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
