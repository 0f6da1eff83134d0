package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"smartBite/internal/modules/realtime/application/port"
	"smartBite/internal/modules/realtime/domain"
)

// KafkaProducer publishes realtime messages to a single topic. Messages are keyed by
// resource id so every event of a reservation lands on the same partition.
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

var _ port.Publisher = (*KafkaProducer)(nil)

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	return &KafkaProducer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaProducer) Publish(ctx context.Context, msg *domain.Message) error {
	value, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.ResourceID),
		Value: value,
		Time:  msg.Timestamp,
	}); err != nil {
		slog.Warn("kafka publish failed", slog.String("topic", p.topic), slog.String("event", msg.Topic), slog.Any("error", err))
		return fmt.Errorf("kafka publish %s: %w", msg.Topic, err)
	}
	slog.Debug("kafka message published", slog.String("topic", p.topic), slog.String("event", msg.Topic), slog.String("resourceId", msg.ResourceID))
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

func encodeMessage(msg *domain.Message) ([]byte, error) {
	msg.NormalizeTopic()
	value, err := json.Marshal(rawEvent{
		Entity:     msg.Entity,
		Action:     msg.Action,
		ResourceID: msg.ResourceID,
		Topic:      msg.Topic,
		Metadata:   msg.Metadata,
		Data:       msg.Data,
		Timestamp:  msg.Timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.Topic, err)
	}
	return value, nil
}
