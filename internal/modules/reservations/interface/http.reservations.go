package transport

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"smartBite/internal/modules/reservations/application/usecase"
	"smartBite/internal/modules/reservations/domain"
	"smartBite/internal/shared/httputil"
)

// ReservationHandler serves the reservation resource and the availability query.
type ReservationHandler struct {
	service      *usecase.ReservationService
	availability *usecase.AvailabilityCalculator
}

func NewReservationHandler(service *usecase.ReservationService, availability *usecase.AvailabilityCalculator) *ReservationHandler {
	return &ReservationHandler{service: service, availability: availability}
}

type availabilityResponse struct {
	Date  string            `json:"date"`
	Slots []domain.TimeSlot `json:"slots"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

func (h *ReservationHandler) Create(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	cmd, err := domain.DecodeCreateReservationCommand(body)
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	created, err := h.service.Create(c.Request().Context(), httputil.Identity(c), cmd)
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *ReservationHandler) List(c echo.Context) error {
	query := domain.ListReservationsQuery{
		Status: c.QueryParam("status"),
		Date:   c.QueryParam("date"),
		Limit:  c.QueryParam("limit"),
	}
	items, err := h.service.List(c.Request().Context(), httputil.Identity(c), query)
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	if items == nil {
		items = []domain.Reservation{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ReservationHandler) Get(c echo.Context) error {
	found, err := h.service.Get(c.Request().Context(), httputil.Identity(c), c.Param("id"))
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, found)
}

func (h *ReservationHandler) Update(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	cmd, err := domain.DecodeUpdateReservationCommand(body)
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	updated, err := h.service.Update(c.Request().Context(), httputil.Identity(c), c.Param("id"), cmd)
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *ReservationHandler) Delete(c echo.Context) error {
	removed, err := h.service.Delete(c.Request().Context(), httputil.Identity(c), c.Param("id"))
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	slog.Info("reservation deleted via api", slog.String("id", removed.ID), slog.String("actor", httputil.Identity(c).UserID))
	return c.JSON(http.StatusOK, deleteResponse{Success: true, ID: removed.ID})
}

func (h *ReservationHandler) Availability(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	slots, err := h.availability.SlotsFor(c.Request().Context(), date)
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, availabilityResponse{Date: date, Slots: slots})
}
