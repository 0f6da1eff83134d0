package application

import (
	"context"

	"smartBite/internal/modules/booking/domain"
	reservations "smartBite/internal/modules/reservations/domain"
	"smartBite/internal/shared/auth"
)

// ReservationCreator is the slice of the reservation service a draft needs.
type ReservationCreator interface {
	Create(ctx context.Context, identity auth.Identity, cmd reservations.CreateReservationCommand) (*reservations.Reservation, error)
}

// ServiceSubmitter submits drafts to an in-process reservation service on behalf of
// Identity, which may be anonymous.
type ServiceSubmitter struct {
	Creator  ReservationCreator
	Identity auth.Identity
}

var _ domain.Submitter = ServiceSubmitter{}

func (s ServiceSubmitter) Submit(ctx context.Context, cmd reservations.CreateReservationCommand) (*reservations.Reservation, error) {
	return s.Creator.Create(ctx, s.Identity, cmd)
}

// SlotReader is the slice of the availability calculator the wizard needs.
type SlotReader interface {
	SlotsFor(ctx context.Context, rawDate string) ([]reservations.TimeSlot, error)
}

// ServiceSlots serves the wizard's slot lookups from an in-process availability calculator.
type ServiceSlots struct {
	Reader SlotReader
}

func (s ServiceSlots) Availability(ctx context.Context, date string) ([]reservations.TimeSlot, error) {
	return s.Reader.SlotsFor(ctx, date)
}
