package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinPartySize          = 1
	MaxPartySize          = 20
	maxNameLength         = 120
	maxSpecialRequestsLen = 500
	DefaultListLimit      = 50
	MaxListLimit          = 200
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether value looks like a deliverable address.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}

// CreateReservationCommand is the client payload for booking a table.
type CreateReservationCommand struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	PartySize       int    `json:"partySize"`
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	SpecialRequests string `json:"specialRequests,omitempty"`

	// type mismatches found by DecodeCreateReservationCommand
	decodeErrs FieldErrors
}

// Validate checks every field and returns the normalized command. today is the
// current calendar day in the restaurant's time zone.
func (c CreateReservationCommand) Validate(today time.Time) (CreateReservationCommand, error) {
	errs := append(FieldErrors(nil), c.decodeErrs...)
	decoded := func(field string) bool { return !c.decodeErrs.Has(field) }
	out := CreateReservationCommand{
		CustomerName:    strings.TrimSpace(c.CustomerName),
		CustomerEmail:   strings.TrimSpace(c.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(c.CustomerPhone),
		SpecialRequests: strings.TrimSpace(c.SpecialRequests),
		PartySize:       c.PartySize,
	}

	if decoded("date") {
		if day, err := ParseDate(c.Date, today.Location()); err != nil {
			errs.add("date", "%s", err.Error())
		} else {
			if day.Before(DayOf(today, today.Location())) {
				errs.add("date", "date must not be in the past")
			}
			out.Date = day.Format(DateLayout)
		}
	}
	if decoded("time") {
		if label, ok := validateSlot(c.Time, &errs); ok {
			out.Time = label
		}
	}
	if decoded("partySize") {
		validatePartySize(c.PartySize, &errs)
	}
	if decoded("customerName") {
		validateName(out.CustomerName, &errs)
	}
	if decoded("customerEmail") {
		validateEmail(out.CustomerEmail, &errs)
	}
	if decoded("customerPhone") {
		validatePhone(out.CustomerPhone, &errs)
	}
	if decoded("specialRequests") {
		validateSpecialRequests(out.SpecialRequests, &errs)
	}

	if err := errs.OrNil(); err != nil {
		return CreateReservationCommand{}, err
	}
	return out, nil
}

// UpdateReservationCommand carries a partial update; nil fields are left unchanged.
type UpdateReservationCommand struct {
	Date            *string `json:"date,omitempty"`
	Time            *string `json:"time,omitempty"`
	PartySize       *int    `json:"partySize,omitempty"`
	CustomerName    *string `json:"customerName,omitempty"`
	CustomerEmail   *string `json:"customerEmail,omitempty"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
	Status          *string `json:"status,omitempty"`
	// Version, when set, must equal the stored version for the update to apply.
	Version *int64 `json:"version,omitempty"`

	// type mismatches found by DecodeUpdateReservationCommand
	decodeErrs FieldErrors
}

// ReservationChanges is a validated UpdateReservationCommand.
type ReservationChanges struct {
	Date            *string
	Time            *string
	PartySize       *int
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	SpecialRequests *string
	Status          *ReservationStatus
	Version         *int64
}

// Empty reports whether no field would change.
func (c ReservationChanges) Empty() bool {
	return c.Date == nil && c.Time == nil && c.PartySize == nil && c.CustomerName == nil &&
		c.CustomerEmail == nil && c.CustomerPhone == nil && c.SpecialRequests == nil && c.Status == nil
}

// Validate checks each supplied field independently.
func (c UpdateReservationCommand) Validate(loc *time.Location) (ReservationChanges, error) {
	// fields that failed to decode are nil here, so only their type error is reported
	errs := append(FieldErrors(nil), c.decodeErrs...)
	out := ReservationChanges{Version: c.Version}

	if c.Date != nil {
		if day, err := ParseDate(*c.Date, loc); err != nil {
			errs.add("date", "%s", err.Error())
		} else {
			out.Date = ptr(day.Format(DateLayout))
		}
	}
	if c.Time != nil {
		if label, ok := validateSlot(*c.Time, &errs); ok {
			out.Time = ptr(label)
		}
	}
	if c.PartySize != nil {
		validatePartySize(*c.PartySize, &errs)
		out.PartySize = ptr(*c.PartySize)
	}
	if c.CustomerName != nil {
		name := strings.TrimSpace(*c.CustomerName)
		validateName(name, &errs)
		out.CustomerName = &name
	}
	if c.CustomerEmail != nil {
		email := strings.TrimSpace(*c.CustomerEmail)
		validateEmail(email, &errs)
		out.CustomerEmail = &email
	}
	if c.CustomerPhone != nil {
		phone := strings.TrimSpace(*c.CustomerPhone)
		validatePhone(phone, &errs)
		out.CustomerPhone = &phone
	}
	if c.SpecialRequests != nil {
		requests := strings.TrimSpace(*c.SpecialRequests)
		validateSpecialRequests(requests, &errs)
		out.SpecialRequests = &requests
	}
	if c.Status != nil {
		if status, err := ParseReservationStatus(*c.Status); err != nil {
			errs.add("status", "%s", err.Error())
		} else {
			out.Status = &status
		}
	}
	if c.Version != nil && *c.Version < 1 {
		errs.add("version", "version must be positive")
	}

	if err := errs.OrNil(); err != nil {
		return ReservationChanges{}, err
	}
	return out, nil
}

// Apply writes the changes onto a copy of r and returns it; r is untouched when the
// status transition is rejected.
func (c ReservationChanges) Apply(r Reservation, now time.Time) (Reservation, error) {
	next := r
	if c.Status != nil {
		if err := next.TransitionTo(*c.Status); err != nil {
			return r, err
		}
	}
	if c.Date != nil {
		next.Date = *c.Date
	}
	if c.Time != nil {
		next.Time = *c.Time
	}
	if c.PartySize != nil {
		next.PartySize = *c.PartySize
	}
	if c.CustomerName != nil {
		next.CustomerName = *c.CustomerName
	}
	if c.CustomerEmail != nil {
		next.CustomerEmail = *c.CustomerEmail
	}
	if c.CustomerPhone != nil {
		next.CustomerPhone = *c.CustomerPhone
	}
	if c.SpecialRequests != nil {
		next.SpecialRequests = *c.SpecialRequests
	}
	next.UpdatedAt = now.UTC()
	return next, nil
}

// ListReservationsQuery is the raw query string of GET /reservations.
type ListReservationsQuery struct {
	Status string
	Date   string
	Limit  string
}

// Filter validates the query and converts it into a store filter.
func (q ListReservationsQuery) Filter(loc *time.Location) (ReservationFilter, error) {
	var errs FieldErrors
	filter := ReservationFilter{Limit: DefaultListLimit}

	if status := strings.TrimSpace(q.Status); status != "" && !strings.EqualFold(status, "all") {
		parsed, err := ParseReservationStatus(status)
		if err != nil {
			errs.add("status", "%s", err.Error())
		}
		filter.Status = parsed
	}
	if date := strings.TrimSpace(q.Date); date != "" {
		day, err := ParseDate(date, loc)
		if err != nil {
			errs.add("date", "%s", err.Error())
		} else {
			filter.Date = day.Format(DateLayout)
		}
	}
	if limit := strings.TrimSpace(q.Limit); limit != "" {
		n, err := strconv.Atoi(limit)
		switch {
		case err != nil || n < 1:
			errs.add("limit", "limit must be a positive integer")
		case n > MaxListLimit:
			filter.Limit = MaxListLimit
		default:
			filter.Limit = n
		}
	}

	if err := errs.OrNil(); err != nil {
		return ReservationFilter{}, err
	}
	return filter, nil
}

func validateSlot(value string, errs *FieldErrors) (string, bool) {
	if strings.TrimSpace(value) == "" {
		errs.add("time", "time is required")
		return "", false
	}
	label, ok := CanonicalSlotLabel(value)
	if !ok {
		errs.add("time", "%q is not a bookable time slot", value)
		return "", false
	}
	return label, true
}

func validatePartySize(size int, errs *FieldErrors) {
	if size < MinPartySize || size > MaxPartySize {
		errs.add("partySize", "party size must be between %d and %d", MinPartySize, MaxPartySize)
	}
}

func validateName(name string, errs *FieldErrors) {
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		errs.add("customerName", "customer name is required")
	case n > maxNameLength:
		errs.add("customerName", "customer name must be at most %d characters", maxNameLength)
	}
}

func validateEmail(email string, errs *FieldErrors) {
	if email == "" {
		errs.add("customerEmail", "customer email is required")
		return
	}
	if !ValidEmail(email) {
		errs.add("customerEmail", "customer email is not a valid address")
	}
}

func validatePhone(phone string, errs *FieldErrors) {
	if phone == "" {
		errs.add("customerPhone", "customer phone is required")
	}
}

func validateSpecialRequests(text string, errs *FieldErrors) {
	if utf8.RuneCountInString(text) > maxSpecialRequestsLen {
		errs.add("specialRequests", "special requests must be at most %d characters", maxSpecialRequestsLen)
	}
}

func ptr[T any](v T) *T { return &v }
