package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	ev, ok := eventFromUpdate(update)
	if !ok {
		return
	}

	h.logger.Info("Start command",
		zap.Int64("chat_id", ev.ChatID),
		zap.String("username", ev.From.Username))

	h.sendReplies(ctx, b, ev.ChatID, h.conversation.Start(ctx, ev))
}

// HandleCancel обрабатывает команду /cancel
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	ev, ok := eventFromUpdate(update)
	if !ok {
		return
	}

	h.sendReplies(ctx, b, ev.ChatID, h.conversation.Cancel(ctx, ev))
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"/start - Начать работу с ботом\n" +
		"/cancel - Отменить текущую запись\n" +
		"/help - Показать эту справку\n\n" +
		"Для записи нажмите «Записаться на занятия» и ответьте на вопросы."

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   helpText,
	}); err != nil {
		h.logger.Error("Failed to send help", zap.Int64("chat_id", update.Message.Chat.ID), zap.Error(err))
	}
}
