package infrastructure

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"smartBite/internal/modules/realtime/domain"
)

const (
	commandSubscribe     = "subscribe"
	commandUnsubscribe   = "unsubscribe"
	commandSubscriptions = "subscriptions"
	commandPing          = "ping"
)

// Command is a request sent by a dashboard over the admin feed socket.
type Command struct {
	Action  string          `json:"action"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (c Command) actionKey() string {
	return strings.ToLower(strings.TrimSpace(c.Action))
}

type commandHandler func(client *Client, cmd Command)

// CommandProcessor answers feed commands for one client. Once admitted to a topic set,
// the client may only subscribe to topics from that set; a nil set admits every topic.
type CommandProcessor struct {
	hub      *Hub
	handlers map[string]commandHandler
	admitted map[string]struct{}
}

func NewCommandProcessor(hub *Hub) *CommandProcessor {
	p := &CommandProcessor{hub: hub}
	p.handlers = map[string]commandHandler{
		commandSubscribe:     p.handleSubscribe,
		commandUnsubscribe:   p.handleUnsubscribe,
		commandSubscriptions: p.handleSubscriptions,
		commandPing:          p.handlePing,
	}
	return p
}

// admit restricts later subscriptions to topics.
func (p *CommandProcessor) admit(topics []string) {
	p.admitted = make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		if normalized := normalizeTopic(topic); normalized != "" {
			p.admitted[normalized] = struct{}{}
		}
	}
}

func (p *CommandProcessor) permits(topic string) bool {
	if p.admitted == nil {
		return true
	}
	_, ok := p.admitted[topic]
	return ok
}

func (p *CommandProcessor) Process(client *Client, cmd Command) {
	if client == nil {
		return
	}
	action := cmd.actionKey()
	if action == "" {
		return
	}
	handler, ok := p.handlers[action]
	if !ok {
		slog.Debug("ws command rejected", slog.String("userId", client.userID), slog.String("action", action))
		replyError(client, action, "", "unknown command")
		return
	}
	handler(client, cmd)
}

func (p *CommandProcessor) handleSubscribe(client *Client, cmd Command) {
	topic := normalizeTopic(cmd.Topic)
	if topic == "" {
		replyError(client, commandSubscribe, "", "topic is required")
		return
	}
	if !p.permits(topic) {
		slog.Warn("ws subscribe outside reservation feed", slog.String("userId", client.userID), slog.String("topic", topic))
		replyError(client, commandSubscribe, topic, "topic is not available on this feed")
		return
	}
	p.hub.subscribe(client, topic)
	slog.Debug("ws subscribe", slog.String("userId", client.userID), slog.String("sessionId", client.sessionID), slog.String("topic", topic))
}

func (p *CommandProcessor) handleUnsubscribe(client *Client, cmd Command) {
	topic := normalizeTopic(cmd.Topic)
	if topic == "" {
		return
	}
	p.hub.unsubscribe(client, topic)
}

func (p *CommandProcessor) handleSubscriptions(client *Client, _ Command) {
	client.SendDomainMessage(&domain.Message{
		Topic:     domain.TopicSystemSubscriptions,
		Entity:    domain.SystemEntity,
		Action:    domain.ActionSubscriptions,
		Data:      map[string]any{"topics": p.hub.subscriptions(client)},
		Timestamp: time.Now().UTC(),
	})
}

func (p *CommandProcessor) handlePing(client *Client, _ Command) {
	client.SendDomainMessage(&domain.Message{
		Topic:     domain.TopicSystemPong,
		Entity:    domain.SystemEntity,
		Action:    domain.ActionPong,
		Timestamp: time.Now().UTC(),
	})
}

func replyError(client *Client, command, topic, reason string) {
	metadata := map[string]string{"command": command}
	if topic != "" {
		metadata["topic"] = topic
	}
	client.SendDomainMessage(&domain.Message{
		Topic:     domain.TopicSystemError,
		Entity:    domain.SystemEntity,
		Action:    domain.ActionError,
		Metadata:  metadata,
		Data:      map[string]any{"message": reason},
		Timestamp: time.Now().UTC(),
	})
}

func normalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}
