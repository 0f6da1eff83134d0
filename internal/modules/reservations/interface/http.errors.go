package transport

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"smartBite/internal/modules/reservations/domain"
	"smartBite/internal/shared/httputil"
)

// NewReservationErrorMapper maps reservation domain errors to API responses. Slot
// exhaustion is checked before the generic conflict it wraps.
func NewReservationErrorMapper() *httputil.ErrorMapper {
	return httputil.NewErrorMapper().
		WithMapping(domain.ErrInvalidTransition, http.StatusBadRequest, "status transition not allowed").
		WithMapping(domain.ErrValidation, http.StatusBadRequest, "invalid reservation data").
		WithMapping(domain.ErrUnauthorized, http.StatusUnauthorized, "authentication required").
		WithMapping(domain.ErrForbidden, http.StatusForbidden, "forbidden").
		WithMapping(domain.ErrNotFound, http.StatusNotFound, "reservation not found").
		WithMapping(domain.ErrSlotFull, http.StatusConflict, "time slot is fully booked").
		WithMapping(domain.ErrConflict, http.StatusConflict, "reservation was modified by another request").
		WithMapping(domain.ErrInternal, http.StatusInternalServerError, "internal server error")
}

var errorMapper = NewReservationErrorMapper()

const maxBodyBytes = 64 << 10

var errInvalidBody = domain.Invalid("body", "request body could not be read")

// readBody returns the raw request body, capped at maxBodyBytes.
func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return nil, errInvalidBody
	}
	if len(body) > maxBodyBytes {
		return nil, domain.Invalid("body", "request body must be at most %d bytes", maxBodyBytes)
	}
	return body, nil
}
