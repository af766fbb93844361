package services

import (
	"context"
	"fmt"

	"kriya/internal/apperr"
	"kriya/internal/models"
	"kriya/internal/repositories"

	"go.uber.org/zap"
)

// DefaultMaxCASAttempts bounds how often a cart mutation is re-applied after
// losing a version race to another process.
const DefaultMaxCASAttempts = 5

// CartService is the per-owner cart aggregate. Mutations for one owner run one
// at a time in this process and are saved with a version check, so concurrent
// requests never lose an update.
type CartService struct {
	carts       repositories.CartRepository
	products    repositories.ProductRepository
	locks       *ownerLocks
	maxAttempts int
	log         *zap.Logger
}

// NewCartService creates a new CartService. maxAttempts below 1 selects
// DefaultMaxCASAttempts.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository, maxAttempts int, log *zap.Logger) *CartService {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxCASAttempts
	}
	return &CartService{
		carts:       carts,
		products:    products,
		locks:       newOwnerLocks(),
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// withOwner runs fn while holding owner's lock.
func (s *CartService) withOwner(ctx context.Context, owner string, fn func() error) error {
	if owner == "" {
		return apperr.NotAuthenticated("no active session")
	}
	unlock, err := s.locks.acquire(ctx, owner)
	if err != nil {
		return apperr.Unavailable(err, "cart of %s is busy", owner)
	}
	defer unlock()
	return fn()
}

// apply reads owner's cart, runs fn on it and saves it. A version conflict
// re-reads the cart and runs fn again. fn must only depend on the cart it is
// given. Callers hold owner's lock.
func (s *CartService) apply(ctx context.Context, owner string, fn func(*models.Cart) error) (*models.Cart, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		cart, err := s.carts.Get(ctx, owner)
		if err != nil {
			return nil, err
		}
		if err := fn(cart); err != nil {
			return nil, err
		}
		err = s.carts.Save(ctx, cart)
		if err == nil {
			return cart, nil
		}
		if !apperr.IsKind(err, apperr.KindConflict) {
			return nil, err
		}
		lastErr = err
		s.log.Debug("cart changed concurrently, retrying",
			zap.String("owner", owner), zap.Int("attempt", attempt))
	}
	s.log.Warn("giving up on cart update", zap.String("owner", owner), zap.Error(lastErr))
	return nil, lastErr
}

func (s *CartService) mutate(ctx context.Context, owner string, fn func(*models.Cart) error) (*models.Cart, error) {
	var cart *models.Cart
	err := s.withOwner(ctx, owner, func() error {
		var err error
		cart, err = s.apply(ctx, owner, fn)
		return err
	})
	return cart, err
}

func checkQuantity(quantity int) error {
	switch {
	case quantity < 1:
		return apperr.InvalidField("quantity", "must be at least 1")
	case quantity > models.MaxLineQuantity:
		return apperr.InvalidField("quantity", fmt.Sprintf("must be at most %d", models.MaxLineQuantity))
	}
	return nil
}

// Add merges quantity units of snapshot's product into owner's cart and
// returns the affected line.
func (s *CartService) Add(ctx context.Context, owner string, snapshot models.CartItem, quantity int) (models.CartItem, error) {
	if err := checkQuantity(quantity); err != nil {
		return models.CartItem{}, err
	}
	if snapshot.ProductID == "" {
		return models.CartItem{}, apperr.InvalidField("product_id", "is required")
	}
	var line models.CartItem
	_, err := s.mutate(ctx, owner, func(c *models.Cart) error {
		if c.QuantityOf(snapshot.ProductID)+quantity > models.MaxLineQuantity {
			return apperr.InvalidField("quantity", fmt.Sprintf("cart line cannot exceed %d units", models.MaxLineQuantity))
		}
		line = c.Add(snapshot, quantity)
		return nil
	})
	if err != nil {
		return models.CartItem{}, err
	}
	return line, nil
}

// AddProduct snapshots the stored product and adds it.
func (s *CartService) AddProduct(ctx context.Context, owner, productID string, quantity int) (models.CartItem, error) {
	if err := checkQuantity(quantity); err != nil {
		return models.CartItem{}, err
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return models.CartItem{}, err
	}
	return s.Add(ctx, owner, models.SnapshotOf(*product), quantity)
}

// SetQuantity overwrites a line's quantity, removing it when quantity <= 0.
// A missing line is reported as not found and leaves the cart unchanged.
func (s *CartService) SetQuantity(ctx context.Context, owner, itemID string, quantity int) (*models.Cart, error) {
	if quantity > models.MaxLineQuantity {
		return nil, checkQuantity(quantity)
	}
	return s.mutate(ctx, owner, func(c *models.Cart) error {
		if !c.SetQuantity(itemID, quantity) {
			return apperr.NotFound("cart item %s not found", itemID)
		}
		return nil
	})
}

// Remove deletes a line.
func (s *CartService) Remove(ctx context.Context, owner, itemID string) (*models.Cart, error) {
	return s.SetQuantity(ctx, owner, itemID, 0)
}

// Clear empties owner's cart. Clearing an empty cart is not an error.
func (s *CartService) Clear(ctx context.Context, owner string) error {
	_, err := s.mutate(ctx, owner, func(c *models.Cart) error {
		c.Clear()
		return nil
	})
	return err
}

// Cart returns owner's current cart.
func (s *CartService) Cart(ctx context.Context, owner string) (*models.Cart, error) {
	if owner == "" {
		return nil, apperr.NotAuthenticated("no active session")
	}
	return s.carts.Get(ctx, owner)
}

// Items returns a copy of owner's lines.
func (s *CartService) Items(ctx context.Context, owner string) ([]models.CartItem, error) {
	cart, err := s.Cart(ctx, owner)
	if err != nil {
		return nil, err
	}
	return cart.Snapshot(), nil
}

// ItemCount is the total quantity in owner's cart.
func (s *CartService) ItemCount(ctx context.Context, owner string) (int, error) {
	cart, err := s.Cart(ctx, owner)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

// TotalAmount is the discounted total of owner's cart.
func (s *CartService) TotalAmount(ctx context.Context, owner string) (float64, error) {
	cart, err := s.Cart(ctx, owner)
	if err != nil {
		return 0, err
	}
	return cart.TotalAmount(), nil
}
