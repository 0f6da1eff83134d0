package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation        = errors.New("invalid reservation data")
	ErrUnauthorized      = errors.New("authentication required")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("reservation not found")
	ErrConflict          = errors.New("reservation conflict")
	ErrSlotFull          = fmt.Errorf("%w: time slot is fully booked", ErrConflict)
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInternal          = errors.New("internal failure")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors aggregates every failing field of a request. It wraps ErrValidation.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(fe))
	for _, item := range fe {
		parts = append(parts, item.Field+": "+item.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (fe FieldErrors) Unwrap() error { return ErrValidation }

// Details exposes the per-field problems to the HTTP error mapper.
func (fe FieldErrors) Details() any { return []FieldError(fe) }

// Has reports whether field failed validation.
func (fe FieldErrors) Has(field string) bool {
	for _, item := range fe {
		if item.Field == field {
			return true
		}
	}
	return false
}

func (fe *FieldErrors) add(field, format string, args ...any) {
	*fe = append(*fe, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// OrNil returns nil for an empty set so callers can return it directly.
func (fe FieldErrors) OrNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Invalid builds a single-field validation error.
func Invalid(field, format string, args ...any) FieldErrors {
	var errs FieldErrors
	errs.add(field, format, args...)
	return errs
}
