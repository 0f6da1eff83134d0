package usecase

import (
	"context"

	"smartBite/internal/modules/realtime/application/port"
	"smartBite/internal/modules/realtime/domain"
)

type BroadcastUseCase struct {
	broadcaster port.Broadcaster
}

func NewBroadcastUseCase(b port.Broadcaster) *BroadcastUseCase {
	return &BroadcastUseCase{broadcaster: b}
}

func (uc *BroadcastUseCase) Execute(ctx context.Context, msg *domain.Message) {
	if msg == nil {
		return
	}
	msg.NormalizeTopic()
	uc.broadcaster.Broadcast(ctx, msg)
}
