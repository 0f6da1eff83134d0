package domain

import (
	"reflect"
	"testing"
)

func TestEntityTopics(t *testing.T) {
	got := EntityTopics(" reservations ", []string{"created", "Updated", "", "created", "deleted"})
	want := []string{"reservations.created", "reservations.updated", "reservations.deleted"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("EntityTopics() = %v, want %v", got, want)
	}
	if topic := CustomTopic("", "created"); topic != "" {
		t.Fatalf("expected empty topic for blank entity, got %q", topic)
	}
}

func TestMessageNormalizeTopic(t *testing.T) {
	msg := Message{Entity: ReservationEntity, Action: ActionDeleted}
	msg.NormalizeTopic()
	if msg.Topic != "reservations.deleted" {
		t.Fatalf("unexpected topic %q", msg.Topic)
	}

	explicit := Message{Topic: "custom", Entity: ReservationEntity, Action: ActionCreated}
	explicit.NormalizeTopic()
	if explicit.Topic != "custom" {
		t.Fatalf("explicit topic must be kept, got %q", explicit.Topic)
	}
}
