package domain

import (
	"sort"
	"strings"
	"time"
)

// Reservation represents a confirmed booking request for the restaurant.
type Reservation struct {
	ID               string            `json:"id"`
	ConfirmationCode string            `json:"confirmationCode"`
	Date             string            `json:"date"`
	Time             string            `json:"time"`
	PartySize        int               `json:"partySize"`
	CustomerName     string            `json:"customerName"`
	CustomerEmail    string            `json:"customerEmail"`
	CustomerPhone    string            `json:"customerPhone"`
	SpecialRequests  string            `json:"specialRequests,omitempty"`
	Status           ReservationStatus `json:"status"`
	OwnerID          string            `json:"userId,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	Version          int64             `json:"version"`
}

// NewReservation builds a pending reservation from an already validated command.
func NewReservation(cmd CreateReservationCommand, id, code, ownerID string, now time.Time) *Reservation {
	now = now.UTC()
	return &Reservation{
		ID:               id,
		ConfirmationCode: code,
		Date:             cmd.Date,
		Time:             cmd.Time,
		PartySize:        cmd.PartySize,
		CustomerName:     cmd.CustomerName,
		CustomerEmail:    cmd.CustomerEmail,
		CustomerPhone:    cmd.CustomerPhone,
		SpecialRequests:  cmd.SpecialRequests,
		Status:           ReservationStatusPending,
		OwnerID:          strings.TrimSpace(ownerID),
		CreatedAt:        now,
		UpdatedAt:        now,
		Version:          1,
	}
}

// SlotMinutes returns the reservation time as minutes after midnight, or -1 when the
// stored label cannot be parsed.
func (r Reservation) SlotMinutes() int {
	minutes, err := ParseSlotLabel(r.Time)
	if err != nil {
		return -1
	}
	return minutes
}

// OwnedBy reports whether the reservation belongs to the given identity subject.
func (r Reservation) OwnedBy(userID string) bool {
	userID = strings.TrimSpace(userID)
	return userID != "" && r.OwnerID == userID
}

// MovesIntoSlot reports whether changing before into after adds covers to after's slot:
// the slot changed, the party grew or a released reservation holds its slot again.
func MovesIntoSlot(before, after Reservation) bool {
	if !after.Status.HoldsSlot() {
		return false
	}
	if !before.Status.HoldsSlot() || before.Date != after.Date || before.Time != after.Time {
		return true
	}
	return after.PartySize > before.PartySize
}

// TransitionTo moves the reservation to next when the status policy allows it.
func (r *Reservation) TransitionTo(next ReservationStatus) error {
	if !next.Valid() {
		return FieldErrors{{Field: "status", Message: "unknown status " + string(next)}}
	}
	if !r.Status.CanTransitionTo(next) {
		return invalidTransition(r.Status, next)
	}
	r.Status = next
	return nil
}

func invalidTransition(from, to ReservationStatus) error {
	return transitionError{
		FieldErrors: FieldErrors{{Field: "status", Message: "cannot change status from " + string(from) + " to " + string(to)}},
	}
}

type transitionError struct {
	FieldErrors
}

func (e transitionError) Unwrap() []error { return []error{ErrInvalidTransition, e.FieldErrors} }

// ReservationFilter narrows store queries. Zero values mean "no constraint"; a zero
// Limit returns every match.
type ReservationFilter struct {
	Status  ReservationStatus
	Date    string
	OwnerID string
	Limit   int
}

// Matches reports whether r satisfies every set constraint.
func (f ReservationFilter) Matches(r Reservation) bool {
	if f.Status != ReservationStatusUnknown && r.Status != f.Status {
		return false
	}
	if f.Date != "" && r.Date != f.Date {
		return false
	}
	if f.OwnerID != "" && r.OwnerID != f.OwnerID {
		return false
	}
	return true
}

// SortReservations orders by date, then slot time, then creation.
func SortReservations(items []Reservation) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if am, bm := a.SlotMinutes(), b.SlotMinutes(); am != bm {
			return am < bm
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
