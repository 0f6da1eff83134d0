package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	realtime "smartBite/internal/modules/realtime/domain"
	"smartBite/internal/modules/reservations/application/port"
	"smartBite/internal/modules/reservations/domain"
)

type capturingSink struct {
	msgs []*realtime.Message
	err  error
}

func (s *capturingSink) Publish(_ context.Context, msg *realtime.Message) error {
	s.msgs = append(s.msgs, msg)
	return s.err
}

func TestRealtimeEventPublisher(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	sink := &capturingSink{}
	event := port.ReservationEvent{
		Action: port.ActionUpdated,
		Actor:  "admin-1",
		At:     at,
		Reservation: domain.Reservation{
			ID:               "r-1",
			ConfirmationCode: "SB1234ABCD",
			Date:             "2026-10-20",
			Status:           domain.ReservationStatusConfirmed,
		},
	}
	if err := NewRealtimeEventPublisher(sink).Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(sink.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(sink.msgs))
	}
	msg := sink.msgs[0]
	if msg.Topic != "reservations.updated" || msg.ResourceID != "r-1" || !msg.Timestamp.Equal(at) {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.Metadata["status"] != "CONFIRMED" || msg.Metadata["actorId"] != "admin-1" {
		t.Fatalf("unexpected metadata %v", msg.Metadata)
	}
	if _, ok := msg.Data.(domain.Reservation); !ok {
		t.Fatalf("expected reservation payload, got %T", msg.Data)
	}

	sink.err = errors.New("broker down")
	if err := NewRealtimeEventPublisher(sink).Publish(context.Background(), event); !errors.Is(err, sink.err) {
		t.Fatalf("expected sink error, got %v", err)
	}
}
