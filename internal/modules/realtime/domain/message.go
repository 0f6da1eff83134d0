package domain

import "time"

// Message is the envelope carried from the broker to websocket clients.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NormalizeTopic fills Topic from Entity and Action when the producer left it empty.
func (m *Message) NormalizeTopic() {
	if m.Topic == "" {
		m.Topic = CustomTopic(m.Entity, m.Action)
	}
}
