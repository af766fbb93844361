// Package events publishes order lifecycle messages to a broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kriya/internal/models"

	"go.uber.org/zap"
)

// TypeOrderPlaced is the event type of a checkout.
const TypeOrderPlaced = "order.placed"

// OrderPlaced is the message body sent after checkout.
type OrderPlaced struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	UserID        string    `json:"user_id"`
	TotalAmount   float64   `json:"total_amount"`
	ItemCount     int       `json:"item_count"`
	PaymentMethod string    `json:"payment_method"`
	SellerIDs     []string  `json:"seller_ids"`
	PlacedAt      time.Time `json:"placed_at"`
}

// NewOrderPlaced builds the event for order.
func NewOrderPlaced(order *models.Order) OrderPlaced {
	count := 0
	seen := make(map[string]bool)
	sellers := []string{}
	for _, item := range order.Items {
		count += item.Quantity
		if !seen[item.SellerID] {
			seen[item.SellerID] = true
			sellers = append(sellers, item.SellerID)
		}
	}
	return OrderPlaced{
		Type:          TypeOrderPlaced,
		OrderID:       order.ID,
		UserID:        order.UserID,
		TotalAmount:   order.TotalAmount,
		ItemCount:     count,
		PaymentMethod: order.PaymentMethod,
		SellerIDs:     sellers,
		PlacedAt:      order.CreatedAt,
	}
}

// Encode marshals evt to JSON.
func Encode(evt OrderPlaced) ([]byte, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", evt.Type, err)
	}
	return body, nil
}

// Decode parses an event body produced by Encode.
func Decode(body []byte) (OrderPlaced, error) {
	var evt OrderPlaced
	if err := json.Unmarshal(body, &evt); err != nil {
		return OrderPlaced{}, fmt.Errorf("failed to unmarshal order event: %w", err)
	}
	if evt.Type != TypeOrderPlaced {
		return OrderPlaced{}, fmt.Errorf("unexpected event type %q", evt.Type)
	}
	return evt, nil
}

// Publisher delivers order events.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error
	Close() error
}

// LogPublisher only logs events. It is used when no broker is configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error {
	p.log.Info("order event",
		zap.String("type", evt.Type),
		zap.String("order_id", evt.OrderID),
		zap.Float64("total_amount", evt.TotalAmount))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
