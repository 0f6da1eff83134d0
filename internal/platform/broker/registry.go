package broker

import (
	"context"
	"log/slog"
	"sync"

	"smartBite/internal/modules/realtime/domain"
	"smartBite/internal/modules/realtime/infrastructure"
)

// StartKafkaConsumers starts one consumer per topic and dispatches every message to the
// registry. The returned WaitGroup completes once ctx is cancelled and every reader closed.
func StartKafkaConsumers(
	ctx context.Context,
	registry *infrastructure.HandlerRegistry,
	brokers []string,
	groupID string,
	topics []string,
) *sync.WaitGroup {
	var wg sync.WaitGroup
	if len(brokers) == 0 {
		// kafka.NewReader panics on an empty broker list
		return &wg
	}
	for _, topic := range topics {
		wg.Add(1)
		go func(tp string) {
			defer wg.Done()
			consumer := NewKafkaConsumer(brokers, groupID, tp)
			err := consumer.Consume(ctx, func(msg *domain.Message) error {
				return registry.Dispatch(ctx, msg)
			})
			slog.Info("kafka consumer stopped", slog.String("topic", tp), slog.Any("reason", err))
		}(topic)
	}
	return &wg
}
