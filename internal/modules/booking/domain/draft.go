package domain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	reservations "smartBite/internal/modules/reservations/domain"
)

// Step is the wizard position of a Draft.
type Step int

const (
	StepSelectingDateTime Step = iota
	StepEnteringContact
	StepReviewing
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepSelectingDateTime:
		return "selecting-date-time"
	case StepEnteringContact:
		return "entering-contact"
	case StepReviewing:
		return "reviewing"
	case StepConfirmed:
		return "confirmed"
	default:
		return "step(" + strconv.Itoa(int(s)) + ")"
	}
}

var (
	ErrDraftLocked       = errors.New("reservation is already confirmed")
	ErrCallForLargeParty = errors.New("parties of 9 or more must call the restaurant")
	ErrSlotUnavailable   = errors.New("selected time is not available")
	ErrNotReviewing      = errors.New("reservation must be reviewed before submitting")
	ErrCannotGoBack      = errors.New("already at the first step")
	ErrUseSubmit         = errors.New("use submit to confirm the reservation")
)

// Submitter turns a reviewed draft into a persisted reservation.
type Submitter interface {
	Submit(ctx context.Context, cmd reservations.CreateReservationCommand) (*reservations.Reservation, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, cmd reservations.CreateReservationCommand) (*reservations.Reservation, error)

func (f SubmitterFunc) Submit(ctx context.Context, cmd reservations.CreateReservationCommand) (*reservations.Reservation, error) {
	return f(ctx, cmd)
}

// Rules are the calendar constraints the wizard enforces before submission.
type Rules struct {
	Location   *time.Location
	WindowDays int
}

// Contact holds the guest details collected on the second step.
type Contact struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	SpecialRequests string
}

// FullName joins first and last name the way the reservation stores it.
func (c Contact) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// Draft is an immutable in-progress booking. Every operation returns a new Draft and
// leaves the receiver untouched.
type Draft struct {
	rules   Rules
	step    Step
	date    string
	slot    string
	party   PartySelection
	contact Contact

	confirmation *reservations.Reservation
	lastErr      error
}

func NewDraft(rules Rules) Draft {
	if rules.Location == nil {
		rules.Location = time.UTC
	}
	return Draft{rules: rules}
}

func (d Draft) Step() Step { return d.step }
func (d Draft) Date() string { return d.date }
func (d Draft) Time() string { return d.slot }
func (d Draft) Party() PartySelection { return d.party }
func (d Draft) Contact() Contact { return d.contact }
func (d Draft) LastError() error { return d.lastErr }
func (d Draft) Locked() bool { return d.step == StepConfirmed }
func (d Draft) Rules() Rules { return d.rules }
func (d Draft) Reservation() *reservations.Reservation { return d.confirmation }

// ConfirmationCode is empty until the draft is confirmed.
func (d Draft) ConfirmationCode() string {
	if d.confirmation == nil {
		return ""
	}
	return d.confirmation.ConfirmationCode
}

// SetDate selects the day and clears any previously chosen time.
func (d Draft) SetDate(day time.Time) (Draft, error) {
	if d.Locked() {
		return d, ErrDraftLocked
	}
	d.date = reservations.DayOf(day, d.rules.Location).Format(reservations.DateLayout)
	d.slot = ""
	d.lastErr = nil
	return d, nil
}

// SelectTime picks a slot from the availability computed for the draft's date.
func (d Draft) SelectTime(label string, slots []reservations.TimeSlot) (Draft, error) {
	if d.Locked() {
		return d, ErrDraftLocked
	}
	if d.date == "" {
		return d, reservations.Invalid("date", "choose a date before a time")
	}
	canonical, ok := reservations.CanonicalSlotLabel(label)
	if !ok {
		return d, reservations.Invalid("time", "%q is not a bookable time slot", label)
	}
	slot, found := reservations.FindSlot(slots, canonical)
	if !found || !slot.Available {
		return d, fmt.Errorf("%w: %s", ErrSlotUnavailable, canonical)
	}
	d.slot = canonical
	d.lastErr = nil
	return d, nil
}

// SetParty records the party size selection. The large party sentinel is accepted here
// and rejected when leaving the first step.
func (d Draft) SetParty(party PartySelection) (Draft, error) {
	if d.Locked() {
		return d, ErrDraftLocked
	}
	if !party.Valid() {
		return d, reservations.Invalid("partySize", "choose between 1 and %d guests or %s", MaxOnlineParty, LargeParty)
	}
	d.party = party
	d.lastErr = nil
	return d, nil
}

// SetContact replaces the guest details.
func (d Draft) SetContact(contact Contact) (Draft, error) {
	if d.Locked() {
		return d, ErrDraftLocked
	}
	d.contact = contact
	d.lastErr = nil
	return d, nil
}

// Next advances one step when the current step's guard passes. Reviewing drafts move
// forward only through Submit.
func (d Draft) Next(now time.Time) (Draft, error) {
	switch d.step {
	case StepSelectingDateTime:
		if err := d.checkDateTime(now); err != nil {
			return d, err
		}
		d.step = StepEnteringContact
	case StepEnteringContact:
		if err := d.checkContact(); err != nil {
			return d, err
		}
		d.step = StepReviewing
	case StepReviewing:
		return d, ErrUseSubmit
	default:
		return d, ErrDraftLocked
	}
	d.lastErr = nil
	return d, nil
}

// Back returns to the previous step. Confirmed drafts cannot move.
func (d Draft) Back() (Draft, error) {
	switch d.step {
	case StepConfirmed:
		return d, ErrDraftLocked
	case StepSelectingDateTime:
		return d, ErrCannotGoBack
	}
	d.step--
	d.lastErr = nil
	return d, nil
}

// Command converts the draft into the API create payload.
func (d Draft) Command() reservations.CreateReservationCommand {
	size, _ := d.party.Size()
	return reservations.CreateReservationCommand{
		Date:            d.date,
		Time:            d.slot,
		PartySize:       size,
		CustomerName:    d.contact.FullName(),
		CustomerEmail:   strings.TrimSpace(d.contact.Email),
		CustomerPhone:   strings.TrimSpace(d.contact.Phone),
		SpecialRequests: strings.TrimSpace(d.contact.SpecialRequests),
	}
}

// Submit sends a reviewed draft. Success locks the draft with the persisted
// reservation; failure keeps it on the review step with LastError set.
func (d Draft) Submit(ctx context.Context, submitter Submitter, now time.Time) (Draft, error) {
	switch d.step {
	case StepConfirmed:
		return d, ErrDraftLocked
	case StepReviewing:
	default:
		return d, ErrNotReviewing
	}
	if err := d.checkDateTime(now); err != nil {
		d.lastErr = err
		return d, err
	}
	if err := d.checkContact(); err != nil {
		d.lastErr = err
		return d, err
	}

	created, err := submitter.Submit(ctx, d.Command())
	if err != nil {
		d.lastErr = err
		return d, err
	}
	if created == nil {
		err = errors.New("submission returned no reservation")
		d.lastErr = err
		return d, err
	}
	d.step = StepConfirmed
	d.confirmation = created
	d.lastErr = nil
	return d, nil
}

func (d Draft) checkDateTime(now time.Time) error {
	var errs reservations.FieldErrors
	if d.date == "" {
		errs = append(errs, reservations.FieldError{Field: "date", Message: "date is required"})
	} else if day, err := reservations.ParseDate(d.date, d.rules.Location); err == nil {
		today := reservations.DayOf(now, d.rules.Location)
		switch {
		case day.Before(today):
			errs = append(errs, reservations.FieldError{Field: "date", Message: "date must not be in the past"})
		case d.rules.WindowDays > 0 && day.After(today.AddDate(0, 0, d.rules.WindowDays)):
			errs = append(errs, reservations.FieldError{Field: "date", Message: fmt.Sprintf("bookings open %d days ahead", d.rules.WindowDays)})
		}
	}
	if d.slot == "" {
		errs = append(errs, reservations.FieldError{Field: "time", Message: "time is required"})
	}
	if d.party == "" {
		errs = append(errs, reservations.FieldError{Field: "partySize", Message: "party size is required"})
	}
	if err := errs.OrNil(); err != nil {
		return err
	}
	if d.party.Large() {
		return ErrCallForLargeParty
	}
	return nil
}

func (d Draft) checkContact() error {
	var errs reservations.FieldErrors
	if strings.TrimSpace(d.contact.FirstName) == "" {
		errs = append(errs, reservations.FieldError{Field: "firstName", Message: "first name is required"})
	}
	if strings.TrimSpace(d.contact.LastName) == "" {
		errs = append(errs, reservations.FieldError{Field: "lastName", Message: "last name is required"})
	}
	if !reservations.ValidEmail(d.contact.Email) {
		errs = append(errs, reservations.FieldError{Field: "email", Message: "a valid email is required"})
	}
	if strings.TrimSpace(d.contact.Phone) == "" {
		errs = append(errs, reservations.FieldError{Field: "phone", Message: "phone is required"})
	}
	return errs.OrNil()
}
