package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"smartBite/internal/shared/auth"
)

const identityContextKey = "identity"

// IdentityMiddleware resolves the caller from the Authorization bearer token. The query
// parameter fallback is reserved for websocket upgrades. Requests without a token
// continue as anonymous; a token that fails validation is rejected with 401.
func IdentityMiddleware(validator auth.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := auth.ExtractBearerTokenFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return next(c)
			}
			claims, err := validator.Validate(token)
			if err != nil {
				slog.Warn("request token rejected", slog.String("path", c.Path()), slog.String("ip", c.RealIP()), slog.Any("error", err))
				message := "invalid token"
				if errors.Is(err, auth.ErrMissingToken) {
					message = "missing token"
				}
				return c.JSON(http.StatusUnauthorized, ErrorBody{Error: message})
			}
			identity := claims.Identity()
			req := c.Request()
			c.SetRequest(req.WithContext(auth.WithIdentity(req.Context(), identity)))
			c.Set(identityContextKey, identity)
			return next(c)
		}
	}
}

// Identity returns the caller resolved by IdentityMiddleware, or the anonymous identity.
func Identity(c echo.Context) auth.Identity {
	if identity, ok := c.Get(identityContextKey).(auth.Identity); ok {
		return identity
	}
	return auth.IdentityFrom(c.Request().Context())
}

// RespondError maps err and writes the JSON error envelope. Server-side failures are
// logged with the request path.
func (m *ErrorMapper) RespondError(c echo.Context, err error) error {
	info := m.Map(err)
	if info.Status >= http.StatusInternalServerError {
		slog.Error("request failed", slog.String("method", c.Request().Method), slog.String("path", c.Path()), slog.Int("status", info.Status), slog.Any("error", err))
	} else {
		slog.Debug("request rejected", slog.String("method", c.Request().Method), slog.String("path", c.Path()), slog.Int("status", info.Status), slog.Any("error", err))
	}
	return c.JSON(info.Status, info.Body())
}
