package httputil

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequestLoggerRedactsQueryTokens(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/reservations", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/reservations?date=2026-10-19&token=eyJSECRETJWT", nil)
	e.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if strings.Contains(out, "eyJSECRETJWT") {
		t.Fatalf("token leaked into request log: %s", out)
	}
	if !strings.Contains(out, "date=2026-10-19") || !strings.Contains(out, "token=REDACTED") {
		t.Fatalf("expected redacted uri in log: %s", out)
	}
	if !strings.Contains(out, "route=/reservations") {
		t.Fatalf("expected route in log: %s", out)
	}
}

func TestRedactedURI(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/healthz":                         "/healthz",
		"/reservations?date=2026-10-19":    "/reservations?date=2026-10-19",
		"/ws/admin/reservations?token=abc": "/ws/admin/reservations?token=REDACTED",
		"/x?Access_Token=abc&b=2":          "/x?Access_Token=REDACTED&b=2",
		"/x?token=%zz":                     "/x",
	}
	for in, want := range cases {
		if got := RedactedURI(in); got != want {
			t.Fatalf("RedactedURI(%q) = %q, want %q", in, got, want)
		}
	}
}
