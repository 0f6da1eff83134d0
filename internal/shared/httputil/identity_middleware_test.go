package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"smartBite/internal/shared/auth"
)

type validatorFunc func(string) (*auth.Claims, error)

func (f validatorFunc) Validate(token string) (*auth.Claims, error) { return f(token) }

func TestIdentityMiddleware(t *testing.T) {
	t.Parallel()

	validator := validatorFunc(func(token string) (*auth.Claims, error) {
		if token != "good" {
			return nil, auth.ErrInvalidToken
		}
		claims := &auth.Claims{Roles: []string{"admin"}}
		claims.Subject = "user-1"
		return claims, nil
	})

	e := echo.New()
	e.Use(IdentityMiddleware(validator))
	e.GET("/whoami", func(c echo.Context) error {
		identity := Identity(c)
		if auth.IdentityFrom(c.Request().Context()).UserID != identity.UserID {
			t.Errorf("request context and echo context disagree")
		}
		return c.JSON(http.StatusOK, map[string]any{"user": identity.UserID, "admin": identity.IsAdmin()})
	})

	cases := []struct {
		name   string
		target string
		header string
		status int
		body   string
	}{
		{name: "anonymous", status: http.StatusOK, body: `{"admin":false,"user":""}`},
		{name: "query token ignored", target: "/whoami?token=good", status: http.StatusOK, body: `{"admin":false,"user":""}`},
		{name: "valid", header: "Bearer good", status: http.StatusOK, body: `{"admin":true,"user":"user-1"}`},
		{name: "invalid", header: "Bearer bad", status: http.StatusUnauthorized, body: `{"error":"invalid token"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := tc.target
			if target == "" {
				target = "/whoami"
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, rec.Code, rec.Body.String())
			}
			if got := rec.Body.String(); got != tc.body+"\n" {
				t.Fatalf("unexpected body %q", got)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	t.Parallel()

	notFound := errors.New("missing")
	mapper := NewErrorMapper().WithMapping(notFound, http.StatusNotFound, "not found")

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := mapper.RespondError(c, notFound); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if rec.Code != http.StatusNotFound || rec.Body.String() != "{\"error\":\"not found\"}\n" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}
