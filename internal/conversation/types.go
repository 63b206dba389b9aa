package conversation

import "github.com/Freeeeeet/lesson_booking_bot/internal/model"

// Event входящее текстовое сообщение
type Event struct {
	ChatID int64
	From   model.User
	Text   string
}

// Keyboard набор кнопок-ответов. OneTime - клавиатура скрывается после выбора
type Keyboard struct {
	Rows    [][]string
	OneTime bool
}

// Reply исходящее сообщение. RemoveKeyboard убирает ранее показанные кнопки
type Reply struct {
	Text           string
	Keyboard       *Keyboard
	RemoveKeyboard bool
}

func textReply(text string) Reply {
	return Reply{Text: text}
}

func keyboardReply(text string, kb *Keyboard) Reply {
	return Reply{Text: text, Keyboard: kb}
}

func removeKeyboardReply(text string) Reply {
	return Reply{Text: text, RemoveKeyboard: true}
}

// column раскладывает подписи по одной в ряд
func column(labels []string) [][]string {
	rows := make([][]string, 0, len(labels))
	for _, l := range labels {
		rows = append(rows, []string{l})
	}
	return rows
}
