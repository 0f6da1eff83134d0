package usecase

import (
	"context"
	"strings"
	"time"

	"smartBite/internal/modules/reservations/application/port"
	"smartBite/internal/modules/reservations/domain"
)

// AvailabilityCalculator produces the bookable slots for a calendar day.
type AvailabilityCalculator struct {
	store  port.ReservationStore
	policy domain.SlotPolicy
	now    func() time.Time
}

func NewAvailabilityCalculator(store port.ReservationStore, policy domain.SlotPolicy, now func() time.Time) *AvailabilityCalculator {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &AvailabilityCalculator{store: store, policy: policy, now: now}
}

// Policy returns the slot rules in effect.
func (c *AvailabilityCalculator) Policy() domain.SlotPolicy { return c.policy }

// Slots computes the ordered slots for date as seen at now. Closed days skip the
// occupancy query entirely.
func (c *AvailabilityCalculator) Slots(ctx context.Context, date, now time.Time) ([]domain.TimeSlot, error) {
	loc := c.policy.Location
	day := domain.DayOf(date, loc)
	today := domain.DayOf(now, loc)

	var occupancy map[string]int
	open := !day.Before(today) && (c.policy.WindowDays <= 0 || !day.After(today.AddDate(0, 0, c.policy.WindowDays)))
	if open && c.policy.Capacity > 0 {
		var err error
		occupancy, err = c.store.Occupancy(ctx, day.Format(domain.DateLayout))
		if err != nil {
			return nil, internalError(ctx, "load occupancy", err)
		}
	}
	return domain.BuildTimeSlots(day, now, occupancy, c.policy), nil
}

// SlotsFor parses a raw YYYY-MM-DD date and computes its slots against the calculator clock.
func (c *AvailabilityCalculator) SlotsFor(ctx context.Context, rawDate string) ([]domain.TimeSlot, error) {
	if strings.TrimSpace(rawDate) == "" {
		return nil, domain.Invalid("date", "date is required")
	}
	day, err := domain.ParseDate(rawDate, c.policy.Location)
	if err != nil {
		return nil, domain.Invalid("date", "%s", err.Error())
	}
	return c.Slots(ctx, day, c.now())
}
