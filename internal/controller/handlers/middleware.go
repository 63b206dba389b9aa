package handlers

import (
	"context"

	"github.com/Freeeeeet/lesson_booking_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/lesson_booking_bot/internal/conversation"
	"github.com/Freeeeeet/lesson_booking_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// eventFromUpdate достаёт текстовое сообщение из апдейта.
// Возвращает false для апдейтов без сообщения
func eventFromUpdate(update *models.Update) (conversation.Event, bool) {
	if update == nil || update.Message == nil {
		return conversation.Event{}, false
	}

	ev := conversation.Event{
		ChatID: update.Message.Chat.ID,
		Text:   update.Message.Text,
	}
	if from := update.Message.From; from != nil {
		ev.From = model.User{
			TelegramID: from.ID,
			Username:   from.Username,
			FirstName:  from.FirstName,
			LastName:   from.LastName,
		}
	}
	return ev, true
}

// sendReplies отправляет ответы по порядку и логирует если не удалось
func (h *Handlers) sendReplies(ctx context.Context, b *bot.Bot, chatID int64, replies []conversation.Reply) {
	for _, r := range replies {
		params := &bot.SendMessageParams{
			ChatID: chatID,
			Text:   r.Text,
		}
		if markup := keyboard.Markup(r); markup != nil {
			params.ReplyMarkup = markup
		}

		if _, err := b.SendMessage(ctx, params); err != nil {
			h.logger.Error("Failed to send message",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			return
		}
	}
}
