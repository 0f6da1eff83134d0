package transport

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"smartBite/internal/modules/reservations/application/usecase"
	"smartBite/internal/modules/reservations/domain"
	"smartBite/internal/shared/httputil"
)

// AdminHandler serves the admin dashboard endpoints.
type AdminHandler struct {
	manager *usecase.AdminManager
	now     func() time.Time
}

func NewAdminHandler(manager *usecase.AdminManager) *AdminHandler {
	return &AdminHandler{manager: manager, now: time.Now}
}

type transitionsResponse struct {
	ID          string                     `json:"id"`
	Transitions []domain.ReservationStatus `json:"transitions"`
}

func adminFilter(c echo.Context) domain.AdminFilter {
	return domain.AdminFilter{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
		Date:   c.QueryParam("date"),
	}
}

func (h *AdminHandler) Search(c echo.Context) error {
	items, err := h.manager.Search(c.Request().Context(), httputil.Identity(c), adminFilter(c))
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	if items == nil {
		items = []domain.Reservation{}
	}
	return c.JSON(http.StatusOK, items)
}

// Export renders the filtered snapshot as a download. The body is buffered so a failure
// never produces a truncated file.
func (h *AdminHandler) Export(c echo.Context) error {
	format, err := usecase.ParseExportFormat(c.QueryParam("format"))
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	var buf bytes.Buffer
	count, err := h.manager.Export(c.Request().Context(), httputil.Identity(c), adminFilter(c), format, &buf)
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+format.FileName(h.now())+`"`)
	c.Response().Header().Set("X-Total-Count", strconv.Itoa(count))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *AdminHandler) Transitions(c echo.Context) error {
	id := c.Param("id")
	next, err := h.manager.Transitions(c.Request().Context(), httputil.Identity(c), id)
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	if next == nil {
		next = []domain.ReservationStatus{}
	}
	return c.JSON(http.StatusOK, transitionsResponse{ID: id, Transitions: next})
}

func (h *AdminHandler) ChangeStatus(c echo.Context) error {
	status, err := jsonStringField(c, "status")
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	updated, err := h.manager.ChangeStatus(c.Request().Context(), httputil.Identity(c), c.Param("id"), status)
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *AdminHandler) RequestDeletion(c echo.Context) error {
	ticket, err := h.manager.RequestDeletion(c.Request().Context(), httputil.Identity(c), c.Param("id"))
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	return c.JSON(http.StatusAccepted, ticket)
}

func (h *AdminHandler) ConfirmDeletion(c echo.Context) error {
	token, err := jsonStringField(c, "token")
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	removed, err := h.manager.ConfirmDeletion(c.Request().Context(), httputil.Identity(c), token)
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, deleteResponse{Success: true, ID: removed.ID})
}

func jsonStringField(c echo.Context, field string) (string, error) {
	body, err := readBody(c)
	if err != nil {
		return "", err
	}
	return domain.DecodeStringField(body, field)
}

func (h *AdminHandler) Summary(c echo.Context) error {
	summary, err := h.manager.Summary(c.Request().Context(), httputil.Identity(c), c.QueryParam("date"))
	if err != nil {
		return errorMapper.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
