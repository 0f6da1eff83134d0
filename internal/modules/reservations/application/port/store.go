package port

import (
	"context"
	"errors"

	"smartBite/internal/modules/reservations/domain"
)

// ErrDuplicateCode is returned by Create when the confirmation code is already taken.
var ErrDuplicateCode = errors.New("confirmation code already exists")

// ReservationStore is the persisted reservation record store. Implementations must make
// Create, Update and Delete atomic per record and return domain.ErrNotFound for
// unknown ids.
type ReservationStore interface {
	// Create inserts r. When slotCapacity is positive the insert fails with
	// domain.ErrSlotFull if the slot's held covers plus r.PartySize would exceed it.
	Create(ctx context.Context, r *domain.Reservation, slotCapacity int) error
	// List returns the matching reservations ordered by date, time and creation.
	List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error)
	Get(ctx context.Context, id string) (*domain.Reservation, error)
	// Update loads the record, applies mutate and persists the result in one unit.
	// Nothing is written when mutate fails. The store bumps Version. When slotCapacity
	// is positive and the mutation adds covers to a slot (see domain.MovesIntoSlot), the
	// update fails with domain.ErrSlotFull if the other held covers plus the new party
	// size would exceed it.
	Update(ctx context.Context, id string, slotCapacity int, mutate func(*domain.Reservation) error) (*domain.Reservation, error)
	// Delete removes the record and returns it as it was before removal.
	Delete(ctx context.Context, id string) (*domain.Reservation, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	// Occupancy sums the covers of slot-holding reservations per slot label on date.
	Occupancy(ctx context.Context, date string) (map[string]int, error)
}
