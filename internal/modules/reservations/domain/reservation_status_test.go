package domain

import "testing"

func TestParseReservationStatus(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected ReservationStatus
		wantErr  bool
	}{
		{name: "pending", input: " pending ", expected: ReservationStatusPending},
		{name: "confirmed uppercase", input: "CONFIRMED", expected: ReservationStatusConfirmed},
		{name: "no show dashed", input: "no-show", expected: ReservationStatusNoShow},
		{name: "unknown rejected", input: "delayed", wantErr: true},
		{name: "empty rejected", input: "  ", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseReservationStatus(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestReservationStatusTransitions(t *testing.T) {
	allowed := map[[2]ReservationStatus]bool{
		{ReservationStatusPending, ReservationStatusConfirmed}:   true,
		{ReservationStatusPending, ReservationStatusCancelled}:   true,
		{ReservationStatusConfirmed, ReservationStatusCompleted}: true,
		{ReservationStatusConfirmed, ReservationStatusCancelled}: true,
	}
	all := []ReservationStatus{
		ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusCompleted,
		ReservationStatusCancelled,
		ReservationStatusNoShow,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]ReservationStatus{from, to}] || from == to
			if got := from.CanTransitionTo(to); got != want {
				t.Fatalf("%s -> %s: expected %v, got %v", from, to, want, got)
			}
		}
	}
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
	targets := AllowedTransitions(ReservationStatusPending)
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %v", targets)
	}
	targets[0] = ReservationStatusNoShow
	if AllowedTransitions(ReservationStatusPending)[0] != ReservationStatusConfirmed {
		t.Fatal("policy table was mutated through the returned slice")
	}
	if len(AllowedTransitions(ReservationStatusCompleted)) != 0 {
		t.Fatal("completed reservations must not offer transitions")
	}
}
