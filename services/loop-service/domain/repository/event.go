package repository

import (
	"context"

	"loop/services/loop-service/domain/model"
)

// EventPublisher forwards domain events. Publishing never fails the operation that caused it.
type EventPublisher interface {
	Publish(ctx context.Context, event model.Event)
	Close(ctx context.Context) error
}

// ChatNotifier pushes appended chat messages to live listeners.
type ChatNotifier interface {
	NotifyMessage(chat model.Chat, message model.Message)
}
