package services

import (
	"context"
	"strings"
	"time"

	"kriya/internal/apperr"
	"kriya/internal/events"
	"kriya/internal/models"
	"kriya/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutInput is what a buyer submits at checkout.
type CheckoutInput struct {
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=card upi cod"`
	ShippingAddress string `json:"shipping_address" validate:"required,max=500"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	carts     *CartService
	publisher events.Publisher
	log       *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, carts *CartService, publisher events.Publisher, log *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		carts:     carts,
		publisher: publisher,
		log:       log,
	}
}

// PlaceOrder turns owner's cart into a pending order and empties the cart.
// A rejected checkout leaves the cart untouched. The owner's cart lock is held
// throughout, so nothing can be added between the snapshot and the clear.
func (s *OrderService) PlaceOrder(ctx context.Context, owner, paymentMethod, shippingAddress string) (*models.Order, error) {
	input := CheckoutInput{
		PaymentMethod:   strings.TrimSpace(paymentMethod),
		ShippingAddress: strings.TrimSpace(shippingAddress),
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.carts.withOwner(ctx, owner, func() error {
		cart, err := s.carts.carts.Get(ctx, owner)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return apperr.InvalidField("items", "cart is empty")
		}

		order = &models.Order{
			ID:              uuid.New().String(),
			UserID:          owner,
			Items:           cart.Snapshot(),
			TotalAmount:     cart.TotalAmount(),
			Status:          models.OrderStatusPending,
			PaymentMethod:   input.PaymentMethod,
			ShippingAddress: input.ShippingAddress,
			CreatedAt:       time.Now(),
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return err
		}
		s.log.Info("order placed",
			zap.String("order_id", order.ID),
			zap.String("user_id", owner),
			zap.Float64("total_amount", order.TotalAmount))

		// The order exists now; a failed clear must not make the caller retry
		// and place it twice.
		if _, err := s.carts.apply(ctx, owner, func(c *models.Cart) error {
			c.Subtract(order.Items)
			return nil
		}); err != nil {
			s.log.Error("failed to clear cart after checkout",
				zap.String("order_id", order.ID), zap.String("user_id", owner), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order)
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderPlaced(ctx, events.NewOrderPlaced(order)); err != nil {
		s.log.Warn("failed to publish order event", zap.String("order_id", order.ID), zap.Error(err))
	}
}

// GetOrder returns one of owner's orders. Orders belonging to someone else
// are reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, owner, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != owner {
		return nil, apperr.NotFound("order with ID %s not found", id)
	}
	return order, nil
}
