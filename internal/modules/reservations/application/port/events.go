package port

import (
	"context"
	"time"

	"smartBite/internal/modules/reservations/domain"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ReservationEvent describes a committed reservation mutation.
type ReservationEvent struct {
	Action      string
	Reservation domain.Reservation
	Actor       string
	At          time.Time
}

// EventPublisher fans reservation events out to the live feed. Publishing is best effort:
// a failure never rolls back the mutation.
type EventPublisher interface {
	Publish(ctx context.Context, event ReservationEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ReservationEvent) error { return nil }
