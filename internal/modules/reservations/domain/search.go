package domain

import (
	"strings"
	"time"
)

// AdminFilter is the admin dashboard filter set. All constraints are conjunctive.
type AdminFilter struct {
	Search string `json:"search"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

// AdminCriteria is a validated AdminFilter.
type AdminCriteria struct {
	Search string
	Status ReservationStatus
	Date   string
}

// Criteria validates the filter. Status "all" or empty matches every status.
func (f AdminFilter) Criteria(loc *time.Location) (AdminCriteria, error) {
	var errs FieldErrors
	criteria := AdminCriteria{Search: strings.TrimSpace(f.Search)}
	if status := strings.TrimSpace(f.Status); status != "" && !strings.EqualFold(status, "all") {
		parsed, err := ParseReservationStatus(status)
		if err != nil {
			errs.add("status", "%s", err.Error())
		}
		criteria.Status = parsed
	}
	if date := strings.TrimSpace(f.Date); date != "" {
		day, err := ParseDate(date, loc)
		if err != nil {
			errs.add("date", "%s", err.Error())
		} else {
			criteria.Date = day.Format(DateLayout)
		}
	}
	if err := errs.OrNil(); err != nil {
		return AdminCriteria{}, err
	}
	return criteria, nil
}

// Matches applies the search term, status and date constraints to r.
func (c AdminCriteria) Matches(r Reservation) bool {
	if c.Status != ReservationStatusUnknown && r.Status != c.Status {
		return false
	}
	if c.Date != "" && r.Date != c.Date {
		return false
	}
	return MatchesSearch(r, c.Search)
}

// MatchesSearch is a case-insensitive substring match on name, email and
// confirmation code, and a raw substring match on the phone number as typed.
func MatchesSearch(r Reservation, term string) bool {
	if term == "" {
		return true
	}
	lowered := strings.ToLower(term)
	switch {
	case strings.Contains(strings.ToLower(r.CustomerName), lowered):
		return true
	case strings.Contains(strings.ToLower(r.CustomerEmail), lowered):
		return true
	case strings.Contains(strings.ToLower(r.ConfirmationCode), lowered):
		return true
	case strings.Contains(r.CustomerPhone, term):
		return true
	default:
		return false
	}
}
