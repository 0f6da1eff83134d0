package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"smartBite/internal/modules/realtime/domain"
	"smartBite/internal/modules/realtime/infrastructure"
	"smartBite/internal/shared/auth"
)

type stubValidator map[string]*auth.Claims

func (v stubValidator) Validate(token string) (*auth.Claims, error) {
	if token == "" {
		return nil, auth.ErrMissingToken
	}
	claims, ok := v[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *infrastructure.Hub) {
	t.Helper()
	admin := &auth.Claims{SessionID: "s-admin", Roles: []string{auth.RoleAdmin}}
	admin.Subject = "admin-1"
	customer := &auth.Claims{SessionID: "s-cust", Roles: []string{"CUSTOMER"}}
	customer.Subject = "cust-1"

	hub := infrastructure.NewHub()
	e := echo.New()
	e.GET("/ws/admin/reservations", NewAdminReservationsWebsocketHandler(hub, stubValidator{"admin": admin, "customer": customer}, nil))
	server := httptest.NewServer(e)
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})
	return server, hub
}

func wsURL(server *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/admin/reservations" + query
}

func TestAdminWebsocketRejects(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	cases := map[string]int{
		"":                http.StatusUnauthorized,
		"?token=bogus":    http.StatusUnauthorized,
		"?token=customer": http.StatusForbidden,
	}
	for query, want := range cases {
		_, res, err := websocket.DefaultDialer.Dial(wsURL(server, query), nil)
		if err == nil {
			t.Fatalf("expected dial %q to fail", query)
		}
		if res == nil || res.StatusCode != want {
			t.Fatalf("dial %q: expected status %d, got %+v", query, want, res)
		}
	}
}

func TestAdminWebsocketStreamsReservationEvents(t *testing.T) {
	t.Parallel()

	server, hub := newTestServer(t)
	header := http.Header{}
	header.Set("Authorization", "Bearer admin")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, ""), header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var connected domain.Message
	if err := conn.ReadJSON(&connected); err != nil {
		t.Fatalf("read connected: %v", err)
	}
	if connected.Topic != domain.TopicSystemConnected || connected.Metadata["userId"] != "admin-1" {
		t.Fatalf("unexpected connected message %+v", connected)
	}

	hub.Broadcast(context.Background(), &domain.Message{Topic: "tables.updated"})
	hub.Broadcast(context.Background(), &domain.Message{Topic: "reservations.created", Entity: "reservations", Action: "created", ResourceID: "r-1"})

	var event domain.Message
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if event.Topic != "reservations.created" || event.ResourceID != "r-1" {
		t.Fatalf("unexpected event %+v", event)
	}
}
