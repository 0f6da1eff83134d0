package httputil

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"smartBite/internal/shared/auth"
)

const redacted = "REDACTED"

var sensitiveQueryParams = []string{auth.DefaultTokenQueryParam, "access_token"}

// RequestLogger logs one line per request through logger. Credentials passed in the
// query string never reach the log.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", RedactedURI(v.URI)),
				slog.String("route", c.Path()),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("requestId", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.Any("error", v.Error))
				logger.LogAttrs(c.Request().Context(), slog.LevelWarn, "request failed", attrs...)
				return nil
			}
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	})
}

// RedactedURI masks the values of token query parameters. A query string that does not
// parse is dropped entirely.
func RedactedURI(uri string) string {
	path, rawQuery, ok := strings.Cut(uri, "?")
	if !ok {
		return uri
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return path
	}
	changed := false
	for key := range values {
		for _, sensitive := range sensitiveQueryParams {
			if strings.EqualFold(key, sensitive) {
				values[key] = []string{redacted}
				changed = true
			}
		}
	}
	if !changed {
		return uri
	}
	return path + "?" + values.Encode()
}
