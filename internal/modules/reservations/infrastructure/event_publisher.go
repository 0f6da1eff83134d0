package infrastructure

import (
	"context"
	"log/slog"

	realtimeport "smartBite/internal/modules/realtime/application/port"
	realtime "smartBite/internal/modules/realtime/domain"
	"smartBite/internal/modules/reservations/application/port"
)

// RealtimeEventPublisher turns reservation events into live feed messages.
type RealtimeEventPublisher struct {
	sink realtimeport.Publisher
}

var _ port.EventPublisher = (*RealtimeEventPublisher)(nil)

func NewRealtimeEventPublisher(sink realtimeport.Publisher) *RealtimeEventPublisher {
	return &RealtimeEventPublisher{sink: sink}
}

func (p *RealtimeEventPublisher) Publish(ctx context.Context, event port.ReservationEvent) error {
	msg := ReservationMessage(event)
	if err := p.sink.Publish(ctx, msg); err != nil {
		slog.Warn("reservation event not delivered", slog.String("topic", msg.Topic), slog.String("reservationId", msg.ResourceID), slog.Any("error", err))
		return err
	}
	return nil
}

// ReservationMessage builds the live feed envelope for a reservation event.
func ReservationMessage(event port.ReservationEvent) *realtime.Message {
	r := event.Reservation
	return &realtime.Message{
		Topic:      realtime.CustomTopic(realtime.ReservationEntity, event.Action),
		Entity:     realtime.ReservationEntity,
		Action:     event.Action,
		ResourceID: r.ID,
		Metadata: map[string]string{
			"actorId":          event.Actor,
			"confirmationCode": r.ConfirmationCode,
			"status":           string(r.Status),
			"date":             r.Date,
		},
		Data:      r,
		Timestamp: event.At.UTC(),
	}
}
