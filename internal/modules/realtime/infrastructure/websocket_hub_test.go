package infrastructure

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"smartBite/internal/modules/realtime/domain"
)

func drain(t *testing.T, c *Client) *domain.Message {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if !ok {
			t.Fatalf("client channel closed")
		}
		var msg domain.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return &msg
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for message")
	}
	return nil
}

func assertEmpty(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected message %s", data)
	default:
	}
}

func TestHubBroadcastByTopic(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	admin := NewClient(hub, nil, "admin-1", "s1", 4)
	other := NewClient(hub, nil, "admin-2", "s2", 4)
	hub.AttachClient(admin, []string{"reservations.created", " "})
	hub.AttachClient(other, []string{"reservations.deleted"})

	hub.Broadcast(context.Background(), &domain.Message{Topic: "reservations.created", ResourceID: "r-1"})

	if got := drain(t, admin); got.ResourceID != "r-1" {
		t.Fatalf("unexpected message %+v", got)
	}
	assertEmpty(t, other)
}

func TestHubBroadcastTargetsUser(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	first := NewClient(hub, nil, "u-1", "s1", 4)
	second := NewClient(hub, nil, "u-2", "s2", 4)
	hub.AttachClientToAll(first)
	hub.AttachClientToAll(second)

	hub.Broadcast(context.Background(), &domain.Message{Topic: "anything", Metadata: map[string]string{"userId": "u-2"}})

	drain(t, second)
	assertEmpty(t, first)
}

func TestHubReplacesDuplicateSession(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	old := NewClient(hub, nil, "u-1", "s1", 1)
	closed := make(chan struct{})
	old.AddCloseHook(func(*Client) { close(closed) })
	hub.AttachClient(old, []string{"reservations.updated"})

	replacement := NewClient(hub, nil, "u-1", "s1", 1)
	hub.AttachClient(replacement, []string{"reservations.updated"})

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatalf("previous client was not closed")
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("expected one client, got %d", hub.ClientCount())
	}

	hub.Broadcast(context.Background(), &domain.Message{Topic: "reservations.updated"})
	drain(t, replacement)
}

func TestHubDetachesSlowClient(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	slow := NewClient(hub, nil, "u-1", "s1", 1)
	detached := make(chan struct{})
	slow.AddCloseHook(func(*Client) { close(detached) })
	hub.AttachClient(slow, []string{"reservations.created"})

	msg := &domain.Message{Topic: "reservations.created"}
	hub.Broadcast(context.Background(), msg)
	hub.Broadcast(context.Background(), msg)

	select {
	case <-detached:
	case <-time.After(time.Second):
		t.Fatalf("slow client was not detached")
	}
}

func TestCommandProcessorSubscribeAndPing(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	client := NewClient(hub, nil, "u-1", "s1", 4)
	hub.AttachClient(client, domain.EntityTopics(domain.ReservationEntity, domain.ReservationActions()))

	client.processCommand(Command{Action: "unsubscribe", Topic: "reservations.deleted"})
	hub.Broadcast(context.Background(), &domain.Message{Topic: "reservations.deleted"})
	assertEmpty(t, client)

	client.processCommand(Command{Action: " Subscribe ", Topic: " Reservations.Deleted "})
	hub.Broadcast(context.Background(), &domain.Message{Topic: "reservations.deleted", ResourceID: "r-9"})
	if got := drain(t, client); got.ResourceID != "r-9" {
		t.Fatalf("unexpected message %+v", got)
	}

	client.processCommand(Command{Action: "ping"})
	if got := drain(t, client); got.Topic != domain.TopicSystemPong {
		t.Fatalf("expected pong, got %+v", got)
	}

	client.processCommand(Command{Action: "subscriptions"})
	got := drain(t, client)
	if got.Topic != domain.TopicSystemSubscriptions {
		t.Fatalf("expected subscriptions reply, got %+v", got)
	}
	data, _ := got.Data.(map[string]any)
	topics, _ := data["topics"].([]any)
	if len(topics) != 3 || topics[0] != "reservations.created" {
		t.Fatalf("unexpected subscriptions %+v", got.Data)
	}
}

func TestCommandProcessorRejectsTopicsOutsideFeed(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	client := NewClient(hub, nil, "u-1", "s1", 4)
	hub.AttachClient(client, []string{"reservations.created"})

	tests := []struct {
		name    string
		cmd     Command
		command string
	}{
		{name: "other entity", cmd: Command{Action: "subscribe", Topic: "orders.created"}, command: "subscribe"},
		{name: "reservation topic not admitted", cmd: Command{Action: "subscribe", Topic: "reservations.deleted"}, command: "subscribe"},
		{name: "system topic", cmd: Command{Action: "subscribe", Topic: "system.error"}, command: "subscribe"},
		{name: "missing topic", cmd: Command{Action: "subscribe"}, command: "subscribe"},
		{name: "unknown action", cmd: Command{Action: "publish", Topic: "reservations.created"}, command: "publish"},
	}

	for _, tc := range tests {
		client.processCommand(tc.cmd)
		got := drain(t, client)
		if got.Topic != domain.TopicSystemError || got.Metadata["command"] != tc.command {
			t.Fatalf("%s: expected error reply, got %+v", tc.name, got)
		}
	}

	for _, topic := range []string{"orders.created", "reservations.deleted", "system.error"} {
		hub.Broadcast(context.Background(), &domain.Message{Topic: topic})
	}
	assertEmpty(t, client)
}
