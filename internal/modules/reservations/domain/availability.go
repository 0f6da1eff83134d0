package domain

import (
	"strings"
	"time"
)

// SlotPolicy carries the restaurant rules used to compute slot availability.
type SlotPolicy struct {
	// Capacity is the number of covers a single slot can seat. Zero disables the check.
	Capacity int
	// Blocked lists slot labels that are never bookable.
	Blocked []string
	// WindowDays bounds how far ahead a guest may book. Zero disables the bound.
	WindowDays int
	Location   *time.Location
}

// BuildTimeSlots computes the ordered slots for day as seen at now. occupancy maps
// canonical slot labels to covers already booked.
func BuildTimeSlots(day, now time.Time, occupancy map[string]int, policy SlotPolicy) []TimeSlot {
	loc := policy.Location
	if loc == nil {
		loc = time.UTC
	}
	day = DayOf(day, loc)
	today := DayOf(now, loc)

	closed := day.Before(today)
	if policy.WindowDays > 0 && day.After(today.AddDate(0, 0, policy.WindowDays)) {
		closed = true
	}
	isToday := day.Equal(today)

	blocked := make(map[string]struct{}, len(policy.Blocked))
	for _, label := range policy.Blocked {
		if canonical, ok := CanonicalSlotLabel(label); ok {
			blocked[canonical] = struct{}{}
		}
	}

	minutes := SlotMinutes()
	slots := make([]TimeSlot, 0, len(minutes))
	for _, m := range minutes {
		label := FormatSlotLabel(m)
		available := !closed
		if isToday && m < 12*60 {
			available = false
		}
		if _, ok := blocked[label]; ok {
			available = false
		}
		if policy.Capacity > 0 && occupancy[label] >= policy.Capacity {
			available = false
		}
		slots = append(slots, TimeSlot{Time: label, Available: available, Popular: IsPopularSlot(m)})
	}
	return slots
}

// FindSlot returns the slot whose label matches label.
func FindSlot(slots []TimeSlot, label string) (TimeSlot, bool) {
	canonical, ok := CanonicalSlotLabel(label)
	if !ok {
		return TimeSlot{}, false
	}
	for _, slot := range slots {
		if strings.EqualFold(slot.Time, canonical) {
			return slot, true
		}
	}
	return TimeSlot{}, false
}
