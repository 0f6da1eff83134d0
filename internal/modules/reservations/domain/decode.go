package domain

import (
	"bytes"
	"encoding/json"
)

// DecodeCreateReservationCommand parses a JSON request body one field at a time. A value
// of the wrong JSON type becomes a FieldError on that field and Validate reports it next
// to every other failing field. Only a body that is not a JSON object fails outright.
func DecodeCreateReservationCommand(body []byte) (CreateReservationCommand, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return CreateReservationCommand{}, err
	}
	var (
		cmd  CreateReservationCommand
		errs FieldErrors
	)
	decodeField(fields, "date", &cmd.Date, &errs)
	decodeField(fields, "time", &cmd.Time, &errs)
	decodeField(fields, "partySize", &cmd.PartySize, &errs)
	decodeField(fields, "customerName", &cmd.CustomerName, &errs)
	decodeField(fields, "customerEmail", &cmd.CustomerEmail, &errs)
	decodeField(fields, "customerPhone", &cmd.CustomerPhone, &errs)
	decodeField(fields, "specialRequests", &cmd.SpecialRequests, &errs)
	cmd.decodeErrs = errs
	return cmd, nil
}

// DecodeUpdateReservationCommand is the partial-update counterpart of
// DecodeCreateReservationCommand. Absent and null fields stay nil.
func DecodeUpdateReservationCommand(body []byte) (UpdateReservationCommand, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return UpdateReservationCommand{}, err
	}
	var (
		cmd  UpdateReservationCommand
		errs FieldErrors
	)
	cmd.Date = decodeOptional[string](fields, "date", &errs)
	cmd.Time = decodeOptional[string](fields, "time", &errs)
	cmd.PartySize = decodeOptional[int](fields, "partySize", &errs)
	cmd.CustomerName = decodeOptional[string](fields, "customerName", &errs)
	cmd.CustomerEmail = decodeOptional[string](fields, "customerEmail", &errs)
	cmd.CustomerPhone = decodeOptional[string](fields, "customerPhone", &errs)
	cmd.SpecialRequests = decodeOptional[string](fields, "specialRequests", &errs)
	cmd.Status = decodeOptional[string](fields, "status", &errs)
	cmd.Version = decodeOptional[int64](fields, "version", &errs)
	cmd.decodeErrs = errs
	return cmd, nil
}

// DecodeStringField reads a single string member of a JSON object body. A missing or
// null member yields "".
func DecodeStringField(body []byte, field string) (string, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return "", err
	}
	var (
		value string
		errs  FieldErrors
	)
	decodeField(fields, field, &value, &errs)
	return value, errs.OrNil()
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)
	if len(bytes.TrimSpace(body)) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, Invalid("body", "request body must be a JSON object")
	}
	return fields, nil
}

func decodeField[T any](fields map[string]json.RawMessage, name string, dst *T, errs *FieldErrors) {
	raw, ok := fields[name]
	if !ok || isJSONNull(raw) {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var zero T
		*dst = zero
		errs.add(name, "%s must be %s", name, jsonKind(zero))
	}
}

func decodeOptional[T any](fields map[string]json.RawMessage, name string, errs *FieldErrors) *T {
	raw, ok := fields[name]
	if !ok || isJSONNull(raw) {
		return nil
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		errs.add(name, "%s must be %s", name, jsonKind(value))
		return nil
	}
	return &value
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func jsonKind(v any) string {
	switch v.(type) {
	case int, int64:
		return "a whole number"
	default:
		return "a string"
	}
}
