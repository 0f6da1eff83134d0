package domain

import (
	"errors"
	"testing"
	"time"
)

func TestReservationTransitionToRejectsBackwardsMove(t *testing.T) {
	r := Reservation{Status: ReservationStatusCompleted}

	err := r.TransitionTo(ReservationStatusPending)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected transition errors to be validation errors, got %v", err)
	}
	var fields FieldErrors
	if !errors.As(err, &fields) || !fields.Has("status") {
		t.Fatalf("expected status field error, got %v", err)
	}
	if r.Status != ReservationStatusCompleted {
		t.Fatalf("status changed after rejected transition: %s", r.Status)
	}
}

func TestSortReservationsOrdersByDateThenTime(t *testing.T) {
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	items := []Reservation{
		{ID: "c", Date: "2026-10-21", Time: "11:00 AM", CreatedAt: base},
		{ID: "b", Date: "2026-10-20", Time: "7:00 PM", CreatedAt: base},
		{ID: "a", Date: "2026-10-20", Time: "12:30 PM", CreatedAt: base},
		{ID: "d", Date: "2026-10-20", Time: "7:00 PM", CreatedAt: base.Add(-time.Hour)},
	}

	SortReservations(items)

	want := []string{"a", "d", "b", "c"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}
}

func TestReservationChangesApplyIsAtomic(t *testing.T) {
	original := Reservation{Status: ReservationStatusCompleted, PartySize: 2, CustomerName: "Ana"}
	status := ReservationStatusPending
	size := 6
	changes := ReservationChanges{Status: &status, PartySize: &size}

	result, err := changes.Apply(original, time.Now())
	if err == nil {
		t.Fatal("expected rejected transition")
	}
	if result.PartySize != 2 || result.Status != ReservationStatusCompleted {
		t.Fatalf("partial update leaked: %+v", result)
	}
}

func TestMatchesSearch(t *testing.T) {
	r := Reservation{
		CustomerName:     "Sarah Johnson",
		CustomerEmail:    "sarah@example.com",
		CustomerPhone:    "(555) 456-7890",
		ConfirmationCode: "SB7K2M9QX1",
	}
	cases := map[string]bool{
		"":           true,
		"sarah":      true,
		"JOHNSON":    true,
		"EXAMPLE.C":  true,
		"sb7k2":      true,
		"456-7890":   true,
		"(555) 456":  true,
		"5554567890": false,
		"michael":    false,
	}
	for term, want := range cases {
		if got := MatchesSearch(r, term); got != want {
			t.Fatalf("MatchesSearch(%q) expected %v got %v", term, want, got)
		}
	}
}
