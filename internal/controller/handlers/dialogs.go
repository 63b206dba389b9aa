package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleTextMessage передаёт любой текст в диалог записи
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	ev, ok := eventFromUpdate(update)
	if !ok {
		return
	}

	h.sendReplies(ctx, b, ev.ChatID, h.conversation.Handle(ctx, ev))
}
