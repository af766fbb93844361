package events

import "context"

// queue is the part of the RabbitMQ client the publisher needs.
type queue interface {
	Publish(ctx context.Context, body []byte) error
	Close() error
}

// RabbitPublisher sends events to a RabbitMQ queue.
type RabbitPublisher struct {
	q queue
}

func NewRabbitPublisher(q queue) *RabbitPublisher {
	return &RabbitPublisher{q: q}
}

func (p *RabbitPublisher) PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error {
	body, err := Encode(evt)
	if err != nil {
		return err
	}
	return p.q.Publish(ctx, body)
}

func (p *RabbitPublisher) Close() error { return p.q.Close() }
