package port

import (
	"context"

	"smartBite/internal/modules/realtime/domain"
)

// PubSubPort consumes external events from the broker.
type PubSubPort interface {
	Consume(ctx context.Context, handler func(*domain.Message) error) error
}

// Publisher pushes a message onto the event stream, either the broker or the in-process bus.
type Publisher interface {
	Publish(ctx context.Context, msg *domain.Message) error
}

// Broadcaster sends messages to websocket clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler is registered for every topic it returns from Topics.
type TopicHandler interface {
	Topics() []string
	Handle(ctx context.Context, msg *domain.Message) error
}
