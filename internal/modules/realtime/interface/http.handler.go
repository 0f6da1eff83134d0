package transport

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"smartBite/internal/modules/realtime/domain"
	"smartBite/internal/modules/realtime/infrastructure"
	"smartBite/internal/shared/auth"
)

const clientBuffer = 16

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewAdminReservationsWebsocketHandler exposes /ws/admin/reservations. The token comes from
// the Authorization header or the token query parameter and must carry the admin role.
func NewAdminReservationsWebsocketHandler(hub *infrastructure.Hub, validator auth.TokenValidator, allowedActions []string) echo.HandlerFunc {
	if len(allowedActions) == 0 {
		allowedActions = domain.ReservationActions()
	}
	topics := append(domain.EntityTopics(domain.ReservationEntity, allowedActions), domain.TopicSystemError)

	return func(c echo.Context) error {
		logger := c.Logger()
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()

		token := auth.ExtractToken(c.Request(), auth.DefaultTokenQueryParam)
		claims, err := validator.Validate(token)
		if err != nil {
			slog.Warn("admin ws auth failed", slog.String("ip", peerIP), slog.Any("error", err))
			if errors.Is(err, auth.ErrMissingToken) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		identity := claims.Identity()
		if !identity.IsAdmin() {
			slog.Warn("admin ws forbidden", slog.String("userId", identity.UserID), slog.Any("roles", identity.Roles))
			logger.Warnf("ws rejected: not an admin user=%s ip=%s reqID=%s", identity.UserID, peerIP, requestID)
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("admin ws upgrade failed", slog.String("ip", peerIP), slog.String("reqID", requestID), slog.Any("error", err))
			return err
		}

		client := infrastructure.NewClient(hub, conn, identity.UserID, identity.SessionID, clientBuffer)
		hub.AttachClient(client, topics)

		go client.WritePump()
		go client.ReadPump()

		client.SendDomainMessage(&domain.Message{
			Topic:  domain.TopicSystemConnected,
			Entity: domain.SystemEntity,
			Action: domain.ActionConnected,
			Metadata: map[string]string{
				"userId":    identity.UserID,
				"sessionId": identity.SessionID,
			},
			Data: map[string]any{
				"entity":        domain.ReservationEntity,
				"allowedTopics": topics,
				"roles":         identity.Roles,
			},
			Timestamp: time.Now().UTC(),
		})

		logger.Infof("ws connected user=%s session=%s ip=%s reqID=%s", identity.UserID, identity.SessionID, peerIP, requestID)
		return nil
	}
}
