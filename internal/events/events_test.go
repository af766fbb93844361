package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"kriya/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockQueue struct {
	mock.Mock
}

func (m *mockQueue) Publish(ctx context.Context, body []byte) error {
	return m.Called(ctx, body).Error(0)
}

func (m *mockQueue) Close() error { return m.Called().Error(0) }

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func order() *models.Order {
	return &models.Order{
		ID:     "o1",
		UserID: "buyer-1",
		Items: []models.CartItem{
			{ProductID: "p1", Quantity: 2, SellerID: "s1"},
			{ProductID: "p2", Quantity: 1, SellerID: "s2"},
			{ProductID: "p3", Quantity: 3, SellerID: "s1"},
		},
		TotalAmount:   3600,
		PaymentMethod: "upi",
		CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestNewOrderPlaced(t *testing.T) {
	evt := NewOrderPlaced(order())

	assert.Equal(t, TypeOrderPlaced, evt.Type)
	assert.Equal(t, 6, evt.ItemCount)
	assert.Equal(t, []string{"s1", "s2"}, evt.SellerIDs)

	body, err := Encode(evt)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "o1", decoded["order_id"])
	assert.Equal(t, 3600.0, decoded["total_amount"])

	back, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, evt.OrderID, back.OrderID)
	assert.True(t, evt.PlacedAt.Equal(back.PlacedAt))

	_, err = Decode([]byte(`{"type":"order.shipped"}`))
	assert.Error(t, err)
	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestRabbitPublisher(t *testing.T) {
	q := new(mockQueue)
	q.On("Publish", mock.Anything, mock.MatchedBy(func(body []byte) bool {
		var evt OrderPlaced
		return json.Unmarshal(body, &evt) == nil && evt.OrderID == "o1"
	})).Return(nil).Once()
	q.On("Close").Return(nil).Once()

	p := NewRabbitPublisher(q)
	assert.NoError(t, p.PublishOrderPlaced(context.Background(), NewOrderPlaced(order())))
	assert.NoError(t, p.Close())
	q.AssertExpectations(t)
}

func TestKafkaPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w)

	require.NoError(t, p.PublishOrderPlaced(context.Background(), NewOrderPlaced(order())))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "buyer-1", string(w.msgs[0].Key))
	assert.Equal(t, "type", w.msgs[0].Headers[0].Key)

	w.err = errors.New("leader not available")
	err := p.PublishOrderPlaced(context.Background(), NewOrderPlaced(order()))
	assert.ErrorContains(t, err, "leader not available")
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(zap.NewNop())
	assert.NoError(t, p.PublishOrderPlaced(context.Background(), NewOrderPlaced(order())))
	assert.NoError(t, p.Close())
}
