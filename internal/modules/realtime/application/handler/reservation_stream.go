package handler

import (
	"context"
	"log/slog"
	"strings"

	"smartBite/internal/modules/realtime/application/port"
	"smartBite/internal/modules/realtime/application/usecase"
	"smartBite/internal/modules/realtime/domain"
)

// ReservationStreamHandler forwards reservation mutations to the admin websocket clients.
// Actions outside the allowed set are dropped.
type ReservationStreamHandler struct {
	entity         string
	allowedActions map[string]struct{}
	topics         []string
	broadcastUC    *usecase.BroadcastUseCase
}

func NewReservationStreamHandler(allowedActions []string, broadcastUC *usecase.BroadcastUseCase) *ReservationStreamHandler {
	if len(allowedActions) == 0 {
		allowedActions = domain.ReservationActions()
	}
	actionSet := make(map[string]struct{}, len(allowedActions))
	for _, a := range allowedActions {
		if v := strings.TrimSpace(strings.ToLower(a)); v != "" {
			actionSet[v] = struct{}{}
		}
	}
	return &ReservationStreamHandler{
		entity:         domain.ReservationEntity,
		allowedActions: actionSet,
		topics:         domain.EntityTopics(domain.ReservationEntity, allowedActions),
		broadcastUC:    broadcastUC,
	}
}

func (h *ReservationStreamHandler) Topics() []string {
	return append([]string(nil), h.topics...)
}

func (h *ReservationStreamHandler) Handle(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	action := strings.ToLower(strings.TrimSpace(msg.Action))
	if _, ok := h.allowedActions[action]; !ok {
		slog.Debug("reservation stream action ignored", slog.String("action", msg.Action))
		return nil
	}
	msg.Action = action
	if msg.Entity == "" {
		msg.Entity = h.entity
	}
	msg.NormalizeTopic()
	slog.Info("reservation stream broadcast", slog.String("topic", msg.Topic), slog.String("resourceId", msg.ResourceID))
	h.broadcastUC.Execute(ctx, msg)
	return nil
}

var _ port.TopicHandler = (*ReservationStreamHandler)(nil)
