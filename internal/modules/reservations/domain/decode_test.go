package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDecodeCreateReservationCommand(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

	t.Run("type errors are reported with the other fields", func(t *testing.T) {
		body := `{"date":"2026-10-19","time":"7:00 PM","partySize":"four","customerName":"Ada","customerEmail":"bad","customerPhone":42}`
		cmd, err := DecodeCreateReservationCommand([]byte(body))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		_, err = cmd.Validate(today)
		var fields FieldErrors
		if !errors.As(err, &fields) {
			t.Fatalf("expected field errors, got %v", err)
		}
		for _, field := range []string{"partySize", "customerEmail", "customerPhone"} {
			if !fields.Has(field) {
				t.Fatalf("missing %s error in %v", field, fields)
			}
		}
		if fields.Has("date") || fields.Has("time") || fields.Has("customerName") {
			t.Fatalf("valid fields reported as failing: %v", fields)
		}
		count := 0
		for _, item := range fields {
			if item.Field == "partySize" {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("expected a single partySize error, got %d in %v", count, fields)
		}
	})

	t.Run("well typed body decodes", func(t *testing.T) {
		body := `{"date":"2026-10-19","time":"7:00 pm","partySize":4,"customerName":"Ada","customerEmail":"ada@example.com","customerPhone":"555-0100","specialRequests":null}`
		cmd, err := DecodeCreateReservationCommand([]byte(body))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		out, err := cmd.Validate(today)
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if out.PartySize != 4 || out.Time != "7:00 PM" {
			t.Fatalf("unexpected command %+v", out)
		}
	})

	t.Run("non object body", func(t *testing.T) {
		for _, body := range []string{`[1,2]`, `{"date":`, `"text"`} {
			_, err := DecodeCreateReservationCommand([]byte(body))
			var fields FieldErrors
			if !errors.As(err, &fields) || !fields.Has("body") {
				t.Fatalf("body %s: expected body error, got %v", body, err)
			}
		}
	})
}

func TestDecodeUpdateReservationCommand(t *testing.T) {
	t.Parallel()

	cmd, err := DecodeUpdateReservationCommand([]byte(`{"partySize":"many","customerEmail":"nope","status":"confirmed","version":null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cmd.PartySize != nil || cmd.Version != nil || cmd.Status == nil || *cmd.Status != "confirmed" {
		t.Fatalf("unexpected decoded command %+v", cmd)
	}
	_, err = cmd.Validate(time.UTC)
	var fields FieldErrors
	if !errors.As(err, &fields) || !fields.Has("partySize") || !fields.Has("customerEmail") {
		t.Fatalf("expected partySize and customerEmail errors, got %v", err)
	}
}

func TestDecodeStringField(t *testing.T) {
	t.Parallel()

	if got, err := DecodeStringField([]byte(`{"status":" CONFIRMED "}`), "status"); err != nil || got != " CONFIRMED " {
		t.Fatalf("unexpected result %q %v", got, err)
	}
	if got, err := DecodeStringField(nil, "token"); err != nil || got != "" {
		t.Fatalf("empty body: %q %v", got, err)
	}
	_, err := DecodeStringField([]byte(`{"token":123}`), "token")
	var fields FieldErrors
	if !errors.As(err, &fields) || !fields.Has("token") {
		t.Fatalf("expected token error, got %v", err)
	}
}
