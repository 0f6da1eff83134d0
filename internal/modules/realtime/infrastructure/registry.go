package infrastructure

import (
	"context"
	"strings"
	"sync"

	"smartBite/internal/modules/realtime/application/port"
	"smartBite/internal/modules/realtime/domain"
)

type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, topic := range h.Topics() {
		if topic = strings.TrimSpace(topic); topic != "" {
			r.handlers[topic] = h
		}
	}
}

// Topics lists every registered topic.
func (r *HandlerRegistry) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	msg.NormalizeTopic()
	r.mu.RLock()
	handler, ok := r.handlers[msg.Topic]
	r.mu.RUnlock()
	if ok {
		return handler.Handle(ctx, msg)
	}
	return nil
}
