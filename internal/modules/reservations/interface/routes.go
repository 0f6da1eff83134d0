package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the reservation API on e. Identity resolution is expected to run
// as middleware on the group or the server.
func RegisterRoutes(e *echo.Echo, reservations *ReservationHandler, admin *AdminHandler, mw ...echo.MiddlewareFunc) {
	api := e.Group("", mw...)

	api.GET("/reservations", reservations.List)
	api.POST("/reservations", reservations.Create)
	api.GET("/reservations/:id", reservations.Get)
	api.PUT("/reservations/:id", reservations.Update)
	api.DELETE("/reservations/:id", reservations.Delete)
	api.GET("/availability", reservations.Availability)

	api.GET("/admin/reservations", admin.Search)
	api.GET("/admin/reservations/export", admin.Export)
	api.GET("/admin/reservations/:id/transitions", admin.Transitions)
	api.POST("/admin/reservations/:id/status", admin.ChangeStatus)
	api.POST("/admin/reservations/:id/delete-request", admin.RequestDeletion)
	api.POST("/admin/reservations/delete-confirm", admin.ConfirmDeletion)
	api.GET("/admin/summary", admin.Summary)
}

// Healthz reports liveness.
func Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
