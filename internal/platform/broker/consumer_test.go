package broker

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"smartBite/internal/modules/realtime/domain"
)

func TestDecodeMessage(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		input kafka.Message
		want  domain.Message
	}{
		{
			name:  "full event",
			input: kafka.Message{Topic: "smartbite.reservations", Value: []byte(`{"entity":"reservations","action":"created","resourceId":"r-1","metadata":{"actor":"u-1"}}`), Time: at},
			want:  domain.Message{Topic: "reservations.created", Entity: "reservations", Action: "created", ResourceID: "r-1"},
		},
		{
			name:  "explicit topic and key fallback",
			input: kafka.Message{Topic: "smartbite.reservations", Key: []byte("r-2"), Value: []byte(`{"topic":"reservations.deleted","entity":"reservations","action":"deleted"}`), Time: at},
			want:  domain.Message{Topic: "reservations.deleted", Entity: "reservations", Action: "deleted", ResourceID: "r-2"},
		},
		{
			name:  "missing entity uses topic suffix",
			input: kafka.Message{Topic: "smartbite.reservations", Value: []byte(`{"action":"updated"}`), Time: at},
			want:  domain.Message{Topic: "reservations.updated", Entity: "reservations", Action: "updated"},
		},
		{
			name:  "non json payload",
			input: kafka.Message{Topic: "reservations.created", Value: []byte("plain"), Time: at},
			want:  domain.Message{Topic: "reservations.created", Entity: "reservations", Action: "created"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := decodeMessage(tc.input)
			if got.Topic != tc.want.Topic || got.Entity != tc.want.Entity || got.Action != tc.want.Action || got.ResourceID != tc.want.ResourceID {
				t.Fatalf("decodeMessage() = %+v, want %+v", got, tc.want)
			}
			if !got.Timestamp.Equal(at) {
				t.Fatalf("expected broker timestamp, got %v", got.Timestamp)
			}
		})
	}
}

func TestEncodeMessageRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	value, err := encodeMessage(&domain.Message{Entity: "reservations", Action: "updated", ResourceID: "r-3", Timestamp: at, Data: map[string]any{"status": "CONFIRMED"}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := decodeMessage(kafka.Message{Topic: "smartbite.reservations", Value: value})
	if got.Topic != "reservations.updated" || got.ResourceID != "r-3" || !got.Timestamp.Equal(at) {
		t.Fatalf("unexpected decoded message %+v", got)
	}
	data, ok := got.Data.(map[string]any)
	if !ok || data["status"] != "CONFIRMED" {
		t.Fatalf("unexpected data %#v", got.Data)
	}
}
