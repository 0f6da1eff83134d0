package infrastructure

import (
	"context"
	"log/slog"

	"smartBite/internal/modules/realtime/application/port"
	"smartBite/internal/modules/realtime/domain"
)

// LocalPublisher dispatches messages straight to the registry when no broker is configured.
type LocalPublisher struct {
	registry *HandlerRegistry
}

var _ port.Publisher = (*LocalPublisher)(nil)

func NewLocalPublisher(registry *HandlerRegistry) *LocalPublisher {
	return &LocalPublisher{registry: registry}
}

func (p *LocalPublisher) Publish(ctx context.Context, msg *domain.Message) error {
	if err := p.registry.Dispatch(ctx, msg); err != nil {
		slog.Warn("local publish dispatch failed", slog.String("topic", msg.Topic), slog.Any("error", err))
		return err
	}
	return nil
}
