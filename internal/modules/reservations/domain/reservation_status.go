package domain

import (
	"fmt"
	"strings"
)

// ReservationStatus represents the lifecycle of a reservation as exposed by the REST API.
type ReservationStatus string

const (
	ReservationStatusUnknown   ReservationStatus = ""
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusNoShow    ReservationStatus = "NO_SHOW"
)

var allowedReservationStatuses = map[string]ReservationStatus{
	string(ReservationStatusPending):   ReservationStatusPending,
	string(ReservationStatusConfirmed): ReservationStatusConfirmed,
	string(ReservationStatusCompleted): ReservationStatusCompleted,
	string(ReservationStatusCancelled): ReservationStatusCancelled,
	string(ReservationStatusNoShow):    ReservationStatusNoShow,
}

// statusTransitions lists the forward moves an administrator may apply.
var statusTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCompleted, ReservationStatusCancelled},
}

// ParseReservationStatus returns the canonical status for the given wire value.
// Matching ignores case and surrounding whitespace; unknown values are rejected.
func ParseReservationStatus(value string) (ReservationStatus, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return ReservationStatusUnknown, fmt.Errorf("status is required")
	}
	trimmed = strings.ReplaceAll(trimmed, "-", "_")
	if status, ok := allowedReservationStatuses[trimmed]; ok {
		return status, nil
	}
	return ReservationStatusUnknown, fmt.Errorf("unknown status %q", value)
}

// Valid reports whether s is one of the known statuses.
func (s ReservationStatus) Valid() bool {
	_, ok := allowedReservationStatuses[string(s)]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed. Keeping the
// current status is always allowed.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	if s == next {
		return s.Valid()
	}
	for _, candidate := range statusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// HoldsSlot reports whether a reservation in this status still occupies its table.
func (s ReservationStatus) HoldsSlot() bool {
	switch s {
	case ReservationStatusCancelled, ReservationStatusNoShow:
		return false
	default:
		return true
	}
}

// AllowedTransitions returns the statuses reachable from s, in display order.
func AllowedTransitions(s ReservationStatus) []ReservationStatus {
	targets := statusTransitions[s]
	out := make([]ReservationStatus, len(targets))
	copy(out, targets)
	return out
}

// ReservationStatuses lists every known status in lifecycle order.
func ReservationStatuses() []ReservationStatus {
	return []ReservationStatus{
		ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusCompleted,
		ReservationStatusCancelled,
		ReservationStatusNoShow,
	}
}
