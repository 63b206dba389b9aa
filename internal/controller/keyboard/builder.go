package keyboard

import (
	"github.com/Freeeeeet/lesson_booking_bot/internal/conversation"
	"github.com/go-telegram/bot/models"
)

// Builder упрощает создание клавиатур с кнопками-ответами
type Builder struct {
	rows    [][]models.KeyboardButton
	oneTime bool
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.KeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(labels ...string) *Builder {
	if len(labels) == 0 {
		return b
	}
	row := make([]models.KeyboardButton, 0, len(labels))
	for _, l := range labels {
		row = append(row, models.KeyboardButton{Text: l})
	}
	b.rows = append(b.rows, row)
	return b
}

// OneTime скрывает клавиатуру после нажатия
func (b *Builder) OneTime(v bool) *Builder {
	b.oneTime = v
	return b
}

// Build создаёт финальную клавиатуру
func (b *Builder) Build() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard:        b.rows,
		ResizeKeyboard:  true,
		OneTimeKeyboard: b.oneTime,
	}
}

// Remove убирает клавиатуру
func Remove() *models.ReplyKeyboardRemove {
	return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
}

// Markup переводит ответ диалога в разметку Telegram.
// nil - клавиатуру не трогаем
func Markup(r conversation.Reply) models.ReplyMarkup {
	switch {
	case r.Keyboard != nil:
		b := NewBuilder().OneTime(r.Keyboard.OneTime)
		for _, row := range r.Keyboard.Rows {
			b.Row(row...)
		}
		return b.Build()
	case r.RemoveKeyboard:
		return Remove()
	default:
		return nil
	}
}
