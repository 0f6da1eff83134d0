package domain

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func validCreate() CreateReservationCommand {
	return CreateReservationCommand{
		Date:          "2026-10-18",
		Time:          "7:00 PM",
		PartySize:     4,
		CustomerName:  "John Smith",
		CustomerEmail: "john@example.com",
		CustomerPhone: "(555) 987-6543",
	}
}

func TestCreateReservationCommandValidate(t *testing.T) {
	today := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

	t.Run("valid command is normalized", func(t *testing.T) {
		cmd := validCreate()
		cmd.Time = "7:00 pm"
		cmd.CustomerName = "  John Smith "
		out, err := cmd.Validate(today)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Time != "7:00 PM" || out.CustomerName != "John Smith" {
			t.Fatalf("command not normalized: %+v", out)
		}
	})

	t.Run("party size bounds", func(t *testing.T) {
		for size := -1; size <= 25; size++ {
			cmd := validCreate()
			cmd.PartySize = size
			_, err := cmd.Validate(today)
			inRange := size >= MinPartySize && size <= MaxPartySize
			if inRange && err != nil {
				t.Fatalf("size %d rejected: %v", size, err)
			}
			if !inRange {
				var fields FieldErrors
				if !errors.As(err, &fields) || !fields.Has("partySize") {
					t.Fatalf("size %d: expected partySize error, got %v", size, err)
				}
			}
		}
	})

	t.Run("every failing field is listed", func(t *testing.T) {
		cmd := CreateReservationCommand{Date: "2026-10-17", Time: "4:00 PM", PartySize: 0, CustomerEmail: "nope"}
		_, err := cmd.Validate(today)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
		var fields FieldErrors
		errors.As(err, &fields)
		for _, field := range []string{"date", "time", "partySize", "customerName", "customerEmail", "customerPhone"} {
			if !fields.Has(field) {
				t.Fatalf("missing %s error in %v", field, fields)
			}
		}
	})

	t.Run("special requests are bounded", func(t *testing.T) {
		cmd := validCreate()
		cmd.SpecialRequests = strings.Repeat("x", maxSpecialRequestsLen+1)
		if _, err := cmd.Validate(today); err == nil {
			t.Fatal("expected special requests to be rejected")
		}
	})
}

func TestUpdateReservationCommandValidate(t *testing.T) {
	badSize := 0
	badEmail := "broken"
	status := "confirmed"
	cmd := UpdateReservationCommand{PartySize: &badSize, CustomerEmail: &badEmail, Status: &status}

	_, err := cmd.Validate(time.UTC)
	var fields FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("expected field errors, got %v", err)
	}
	if !fields.Has("partySize") || !fields.Has("customerEmail") || fields.Has("status") {
		t.Fatalf("unexpected field set: %v", fields)
	}

	size := 6
	changes, err := UpdateReservationCommand{PartySize: &size, Status: &status}.Validate(time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *changes.Status != ReservationStatusConfirmed || *changes.PartySize != 6 || changes.Empty() {
		t.Fatalf("unexpected changes: %+v", changes)
	}
	if !(ReservationChanges{}).Empty() {
		t.Fatal("zero changes should be empty")
	}
}

func TestListReservationsQueryFilter(t *testing.T) {
	filter, err := ListReservationsQuery{Status: "all", Date: "2026-10-20", Limit: "500"}.Filter(time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.Status != ReservationStatusUnknown || filter.Date != "2026-10-20" || filter.Limit != MaxListLimit {
		t.Fatalf("unexpected filter: %+v", filter)
	}

	filter, err = ListReservationsQuery{}.Filter(time.UTC)
	if err != nil || filter.Limit != DefaultListLimit {
		t.Fatalf("expected default limit, got %+v %v", filter, err)
	}

	_, err = ListReservationsQuery{Status: "waiting", Limit: "-3"}.Filter(time.UTC)
	var fields FieldErrors
	if !errors.As(err, &fields) || !fields.Has("status") || !fields.Has("limit") {
		t.Fatalf("expected status and limit errors, got %v", err)
	}
}

func TestConfirmationCodes(t *testing.T) {
	code, err := RandomCodeGenerator{}.Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ValidConfirmationCode(code) || !strings.HasPrefix(code, ConfirmationPrefix) {
		t.Fatalf("malformed code %q", code)
	}

	// Bytes at or above 252 are skipped so "\xff" never contributes a character.
	src := bytes.NewReader(append(bytes.Repeat([]byte{0xff}, 16), bytes.Repeat([]byte{35}, 16)...))
	code, err = NewConfirmationCode(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "SBZZZZZZZZ" {
		t.Fatalf("expected SBZZZZZZZZ, got %s", code)
	}

	if ValidConfirmationCode("SB123") || ValidConfirmationCode("sb12345678") {
		t.Fatal("invalid codes accepted")
	}
}
