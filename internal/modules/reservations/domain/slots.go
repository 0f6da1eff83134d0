package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for reservation days.
const DateLayout = "2006-01-02"

// SlotInterval is the spacing between bookable times, in minutes.
const SlotInterval = 30

type serviceWindow struct {
	first int
	last  int
}

// Lunch runs 11:00 AM to 3:00 PM and dinner 5:00 PM to 9:30 PM; both bounds are bookable.
var serviceWindows = []serviceWindow{
	{first: 11 * 60, last: 15 * 60},
	{first: 17 * 60, last: 21*60 + 30},
}

var popularWindows = []serviceWindow{
	{first: 12 * 60, last: 13 * 60},
	{first: 18 * 60, last: 20 * 60},
}

// TimeSlot is one bookable time for a given date.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Popular   bool   `json:"popular,omitempty"`
}

// SlotMinutes lists the start of every bookable slot as minutes after midnight.
func SlotMinutes() []int {
	out := make([]int, 0, 20)
	for _, window := range serviceWindows {
		for m := window.first; m <= window.last; m += SlotInterval {
			out = append(out, m)
		}
	}
	return out
}

// SlotLabels lists every bookable slot label in order.
func SlotLabels() []string {
	minutes := SlotMinutes()
	out := make([]string, len(minutes))
	for i, m := range minutes {
		out[i] = FormatSlotLabel(m)
	}
	return out
}

// FormatSlotLabel renders minutes after midnight as "h:mm AM|PM".
func FormatSlotLabel(minutes int) string {
	hour := minutes / 60
	minute := minutes % 60
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}

// ParseSlotLabel converts a label such as "7:00 PM" into minutes after midnight.
func ParseSlotLabel(label string) (int, error) {
	trimmed := strings.ToUpper(strings.Join(strings.Fields(label), " "))
	if trimmed == "" {
		return 0, fmt.Errorf("time is required")
	}
	var suffix string
	switch {
	case strings.HasSuffix(trimmed, "AM"):
		suffix = "AM"
	case strings.HasSuffix(trimmed, "PM"):
		suffix = "PM"
	default:
		return 0, fmt.Errorf("time %q must end with AM or PM", label)
	}
	clock := strings.TrimSpace(strings.TrimSuffix(trimmed, suffix))
	hourPart, minutePart, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("time %q must look like h:mm AM", label)
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("time %q has an invalid hour", label)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil || len(minutePart) != 2 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q has invalid minutes", label)
	}
	hour %= 12
	if suffix == "PM" {
		hour += 12
	}
	return hour*60 + minute, nil
}

// CanonicalSlotLabel normalizes label and reports whether it is a bookable slot.
func CanonicalSlotLabel(label string) (string, bool) {
	minutes, err := ParseSlotLabel(label)
	if err != nil || !isServiceMinute(minutes) {
		return "", false
	}
	return FormatSlotLabel(minutes), true
}

func isServiceMinute(minutes int) bool {
	for _, window := range serviceWindows {
		if minutes >= window.first && minutes <= window.last && (minutes-window.first)%SlotInterval == 0 {
			return true
		}
	}
	return false
}

// IsPopularSlot reports whether the slot falls into a core lunch or dinner window.
func IsPopularSlot(minutes int) bool {
	for _, window := range popularWindows {
		if minutes >= window.first && minutes <= window.last {
			return true
		}
	}
	return false
}

// ParseDate accepts "YYYY-MM-DD" or an RFC 3339 timestamp and returns the calendar
// day in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if day, err := time.ParseInLocation(DateLayout, trimmed, loc); err == nil {
		return day, nil
	}
	ts, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be formatted as YYYY-MM-DD", value)
	}
	y, m, d := ts.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

// DayOf truncates t to its calendar day in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
