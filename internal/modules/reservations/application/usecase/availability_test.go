package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartBite/internal/modules/reservations/domain"
	"smartBite/internal/modules/reservations/infrastructure"
)

type countingStore struct {
	*infrastructure.MemoryStore
	occupancyCalls int
}

func (s *countingStore) Occupancy(ctx context.Context, date string) (map[string]int, error) {
	s.occupancyCalls++
	return s.MemoryStore.Occupancy(ctx, date)
}

func TestAvailabilityCalculator_Slots(t *testing.T) {
	t.Parallel()

	store := &countingStore{MemoryStore: infrastructure.NewMemoryStore()}
	policy := domain.SlotPolicy{Capacity: 8, Blocked: []string{"2:30 PM"}, WindowDays: 60, Location: time.UTC}
	svc := NewReservationService(store, ServiceOptions{Now: func() time.Time { return testNow }})
	calc := NewAvailabilityCalculator(store, policy, func() time.Time { return testNow })
	ctx := context.Background()

	tomorrow := testNow.AddDate(0, 0, 1)
	cmd := validCommand()
	cmd.Date = tomorrow.Format(domain.DateLayout)
	cmd.PartySize = 8
	if _, err := svc.Create(ctx, anonymous, cmd); err != nil {
		t.Fatalf("create: %v", err)
	}

	slots, err := calc.Slots(ctx, tomorrow, testNow)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if len(slots) != len(domain.SlotLabels()) {
		t.Fatalf("expected %d slots, got %d", len(domain.SlotLabels()), len(slots))
	}
	if slots[0].Time != "11:00 AM" || slots[len(slots)-1].Time != "9:30 PM" {
		t.Fatalf("unexpected slot range %s..%s", slots[0].Time, slots[len(slots)-1].Time)
	}
	checks := map[string]bool{"11:00 AM": true, "2:30 PM": false, "7:00 PM": false, "7:30 PM": true}
	for label, want := range checks {
		slot, ok := domain.FindSlot(slots, label)
		if !ok || slot.Available != want {
			t.Fatalf("slot %s: expected available=%v got %+v", label, want, slot)
		}
	}
	if popular, _ := domain.FindSlot(slots, "6:30 PM"); !popular.Popular {
		t.Fatalf("6:30 PM should be popular")
	}

	past := testNow.AddDate(0, 0, -1)
	calls := store.occupancyCalls
	closed, err := calc.Slots(ctx, past, testNow)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	for _, slot := range closed {
		if slot.Available {
			t.Fatalf("past day slot %s should be unavailable", slot.Time)
		}
	}
	if store.occupancyCalls != calls {
		t.Fatalf("closed days must not query occupancy")
	}
}

func TestAvailabilityCalculator_SlotsFor(t *testing.T) {
	t.Parallel()

	calc := NewAvailabilityCalculator(infrastructure.NewMemoryStore(), domain.SlotPolicy{WindowDays: 60}, func() time.Time { return testNow })
	slots, err := calc.SlotsFor(context.Background(), testNow.Format(domain.DateLayout))
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	for _, slot := range slots {
		minutes, _ := domain.ParseSlotLabel(slot.Time)
		if minutes < 12*60 && slot.Available {
			t.Fatalf("morning slot %s should be closed today", slot.Time)
		}
	}

	for _, raw := range []string{"", "18/10/2026"} {
		_, err := calc.SlotsFor(context.Background(), raw)
		var fields domain.FieldErrors
		if !errors.As(err, &fields) || !fields.Has("date") {
			t.Fatalf("SlotsFor(%q): expected date error, got %v", raw, err)
		}
	}
}
