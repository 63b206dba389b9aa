package handlers

import (
	"context"

	"github.com/Freeeeeet/lesson_booking_bot/internal/conversation"
	"go.uber.org/zap"
)

// Conversation диалог записи, которому передаются сообщения
type Conversation interface {
	Start(ctx context.Context, ev conversation.Event) []conversation.Reply
	Cancel(ctx context.Context, ev conversation.Event) []conversation.Reply
	Handle(ctx context.Context, ev conversation.Event) []conversation.Reply
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	conversation Conversation
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(conv Conversation, logger *zap.Logger) *Handlers {
	return &Handlers{
		conversation: conv,
		logger:       logger,
	}
}
