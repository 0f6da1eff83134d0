package domain

import "strings"

const (
	SystemEntity      = "system"
	ReservationEntity = "reservations"

	TopicSystemConnected = SystemEntity + ".connected"
	TopicSystemPong      = SystemEntity + ".pong"
	TopicSystemError     = SystemEntity + ".error"

	TopicSystemSubscriptions = SystemEntity + ".subscriptions"

	ActionConnected = "connected"
	ActionPong      = "pong"
	ActionError     = "error"
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"

	ActionSubscriptions = "subscriptions"
)

// ReservationActions are the mutations forwarded to the admin live feed.
func ReservationActions() []string {
	return []string{ActionCreated, ActionUpdated, ActionDeleted}
}

// CreatedTopic returns the canonical created topic for the given entity.
func CreatedTopic(entity string) string {
	return buildEntityTopic(entity, ActionCreated)
}

// UpdatedTopic returns the canonical updated topic for the given entity.
func UpdatedTopic(entity string) string {
	return buildEntityTopic(entity, ActionUpdated)
}

// DeletedTopic returns the canonical deleted topic for the given entity.
func DeletedTopic(entity string) string {
	return buildEntityTopic(entity, ActionDeleted)
}

// CustomTopic returns the canonical topic for the given entity and action.
func CustomTopic(entity, action string) string {
	return buildEntityTopic(entity, action)
}

// EntityTopics lists the topics for every action of an entity, skipping blanks and duplicates.
func EntityTopics(entity string, actions []string) []string {
	seen := make(map[string]struct{}, len(actions))
	topics := make([]string, 0, len(actions))
	for _, action := range actions {
		topic := buildEntityTopic(entity, strings.ToLower(action))
		if topic == "" {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}
	return topics
}

func buildEntityTopic(entity, action string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanAction := strings.TrimSpace(action)
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}
