package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"smartBite/internal/modules/booking/domain"
	reservations "smartBite/internal/modules/reservations/domain"
)

// ErrAborted is returned when the guest quits the wizard.
var ErrAborted = errors.New("booking cancelled")

// SlotSource returns the availability of a calendar day.
type SlotSource interface {
	Availability(ctx context.Context, date string) ([]reservations.TimeSlot, error)
}

// Wizard drives a Draft through the terminal, one prompt per line.
type Wizard struct {
	in        *bufio.Scanner
	out       io.Writer
	slots     SlotSource
	submitter domain.Submitter
	now       func() time.Time
}

func NewWizard(in io.Reader, out io.Writer, slots SlotSource, submitter domain.Submitter) *Wizard {
	return &Wizard{
		in:        bufio.NewScanner(in),
		out:       out,
		slots:     slots,
		submitter: submitter,
		now:       time.Now,
	}
}

const (
	cmdBack = "back"
	cmdQuit = "quit"
)

var errBack = errors.New("back")

// Run walks the guest through the three steps and returns the confirmed draft.
func (w *Wizard) Run(ctx context.Context, rules domain.Rules) (domain.Draft, error) {
	draft := domain.NewDraft(rules)
	w.printf("SmartBite reservations. Type %q to go back or %q to leave.\n", cmdBack, cmdQuit)
	for {
		var err error
		switch draft.Step() {
		case domain.StepSelectingDateTime:
			draft, err = w.selectDateTime(ctx, draft)
		case domain.StepEnteringContact:
			draft, err = w.enterContact(draft)
		case domain.StepReviewing:
			draft, err = w.review(ctx, draft)
		case domain.StepConfirmed:
			w.printf("\nReservation confirmed! Your confirmation code is %s.\n", draft.ConfirmationCode())
			return draft, nil
		}
		if errors.Is(err, errBack) {
			if prev, backErr := draft.Back(); backErr == nil {
				draft = prev
			} else {
				w.printf("%s\n", describe(backErr))
			}
			continue
		}
		if err != nil {
			return draft, err
		}
	}
}

func (w *Wizard) selectDateTime(ctx context.Context, draft domain.Draft) (domain.Draft, error) {
	rules := draft.Rules()
	now := w.now()
	w.printf("\nStep 1 of 3: date and time\n")

	day, err := w.askDate(now, rules.Location)
	if err != nil {
		return draft, err
	}
	if draft, err = draft.SetDate(day); err != nil {
		return draft, err
	}
	slots, err := w.slots.Availability(ctx, draft.Date())
	if err != nil {
		w.printf("Could not load availability: %s\n", describe(err))
		return draft, nil
	}
	w.printSlots(slots)

	for {
		label, err := w.ask("Time: ")
		if err != nil {
			return draft, err
		}
		next, err := draft.SelectTime(label, slots)
		if err != nil {
			w.printf("%s\n", describe(err))
			continue
		}
		draft = next
		break
	}

	w.printf("Party size:")
	for _, option := range domain.PartyOptions() {
		w.printf(" [%s]", option)
	}
	w.printf("\n")
	for {
		raw, err := w.ask("Guests: ")
		if err != nil {
			return draft, err
		}
		party, ok := domain.ParsePartySelection(raw)
		if !ok {
			w.printf("Choose a number between 1 and %d, or %s.\n", domain.MaxOnlineParty, domain.LargeParty)
			continue
		}
		if draft, err = draft.SetParty(party); err != nil {
			return draft, err
		}
		break
	}

	next, err := draft.Next(now)
	if err != nil {
		w.printf("%s\n", describe(err))
		return draft, nil
	}
	return next, nil
}

func (w *Wizard) askDate(now time.Time, loc *time.Location) (time.Time, error) {
	for {
		raw, err := w.ask("Date (YYYY-MM-DD, today, tomorrow): ")
		if err != nil {
			return time.Time{}, err
		}
		switch strings.ToLower(raw) {
		case "today":
			return now, nil
		case "tomorrow":
			return now.AddDate(0, 0, 1), nil
		}
		day, err := reservations.ParseDate(raw, loc)
		if err != nil {
			w.printf("%q is not a date.\n", raw)
			continue
		}
		return day, nil
	}
}

func (w *Wizard) printSlots(slots []reservations.TimeSlot) {
	open := 0
	for _, slot := range slots {
		if !slot.Available {
			continue
		}
		marker := ""
		if slot.Popular {
			marker = " *"
		}
		w.printf("  %s%s\n", slot.Time, marker)
		open++
	}
	if open == 0 {
		w.printf("  No times available on this date.\n")
		return
	}
	w.printf("  (* popular)\n")
}

func (w *Wizard) enterContact(draft domain.Draft) (domain.Draft, error) {
	w.printf("\nStep 2 of 3: contact details\n")
	current := draft.Contact()
	fields := []struct {
		prompt string
		value  *string
	}{
		{"First name", &current.FirstName},
		{"Last name", &current.LastName},
		{"Email", &current.Email},
		{"Phone", &current.Phone},
		{"Special requests (optional)", &current.SpecialRequests},
	}
	for _, field := range fields {
		prompt := field.prompt + ": "
		if *field.value != "" {
			prompt = fmt.Sprintf("%s [%s]: ", field.prompt, *field.value)
		}
		raw, err := w.ask(prompt)
		if err != nil {
			return draft, err
		}
		if raw != "" {
			*field.value = raw
		}
	}
	draft, err := draft.SetContact(current)
	if err != nil {
		return draft, err
	}
	next, err := draft.Next(w.now())
	if err != nil {
		w.printf("%s\n", describe(err))
		return draft, nil
	}
	return next, nil
}

func (w *Wizard) review(ctx context.Context, draft domain.Draft) (domain.Draft, error) {
	rules := draft.Rules()
	contact := draft.Contact()
	day, _ := reservations.ParseDate(draft.Date(), rules.Location)

	w.printf("\nStep 3 of 3: review\n")
	w.printf("  Date:    %s\n", domain.DisplayDate(day, w.now(), rules.Location))
	w.printf("  Time:    %s\n", draft.Time())
	w.printf("  Party:   %s\n", draft.Party().Label())
	w.printf("  Name:    %s\n", contact.FullName())
	w.printf("  Email:   %s\n", contact.Email)
	w.printf("  Phone:   %s\n", contact.Phone)
	if contact.SpecialRequests != "" {
		w.printf("  Notes:   %s\n", contact.SpecialRequests)
	}

	for {
		answer, err := w.ask("Confirm reservation? (yes/back/quit): ")
		if err != nil {
			return draft, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			confirmed, err := draft.Submit(ctx, w.submitter, w.now())
			if err != nil {
				slog.Debug("booking submission failed", slog.Any("error", err))
				w.printf("Could not complete the reservation: %s\n", describe(confirmed.LastError()))
			}
			return confirmed, nil
		default:
			w.printf("Please answer yes, %s or %s.\n", cmdBack, cmdQuit)
		}
	}
}

// ask prints prompt and reads one trimmed line. "back" and "quit" are handled here so
// every prompt honours them.
func (w *Wizard) ask(prompt string) (string, error) {
	w.printf("%s", prompt)
	if !w.in.Scan() {
		if err := w.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrAborted
	}
	line := strings.TrimSpace(w.in.Text())
	switch strings.ToLower(line) {
	case cmdBack:
		return "", errBack
	case cmdQuit, "exit":
		return "", ErrAborted
	}
	return line, nil
}

func (w *Wizard) printf(format string, args ...any) {
	fmt.Fprintf(w.out, format, args...)
}

// describe renders errors for guests: field problems one per line, large parties with
// the call-ahead hint.
func describe(err error) string {
	var fields reservations.FieldErrors
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fields):
		lines := make([]string, 0, len(fields))
		for _, f := range fields {
			lines = append(lines, "- "+f.Message)
		}
		return strings.Join(lines, "\n")
	case errors.Is(err, domain.ErrCallForLargeParty):
		return "Parties of 9 or more must call the restaurant for availability."
	case errors.Is(err, reservations.ErrSlotFull):
		return "That time is now fully booked, please go back and choose another."
	default:
		return err.Error()
	}
}
