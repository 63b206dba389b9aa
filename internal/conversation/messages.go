package conversation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/lesson_booking_bot/internal/model"
	"github.com/Freeeeeet/lesson_booking_bot/internal/repository"
	"github.com/Freeeeeet/lesson_booking_bot/internal/service"
)

// Подписи кнопок
const (
	labelBook     = "Записаться на занятия"
	labelRestart  = "Начать заново"
	labelTelegram = "Telegram"
	labelPhone    = "Телефон"
	labelEmail    = "Email"
	labelDone     = "Готово"
	labelSkip     = "Пропустить"
	labelYes      = "Да"
	labelNo       = "Нет"
)

const (
	msgWelcome      = "Добро пожаловать! Нажмите кнопку:"
	msgAskName      = "📝 Введите ваше имя:"
	msgAskClass     = "Выберите класс:"
	msgAskSubject   = "Выберите предмет:"
	msgAskTopic     = "📖 Укажите тему занятия:"
	msgAskContact   = "📞 Выберите способ связи или «Готово»:"
	msgUseKeyboard  = "Пожалуйста, выберите кнопку на клавиатуре."
	msgAskPhone     = "Введите номер или «Пропустить»:"
	msgBadPhone     = "❌ Неверный номер! Попробуйте снова или «Пропустить»:"
	msgNoPhone      = "Продолжаем без телефона. Выберите способ:"
	msgAskEmail     = "Введите email или «Пропустить»:"
	msgBadEmail     = "❌ Неверный email! Попробуйте снова или «Пропустить»:"
	msgNoEmail      = "Продолжаем без email. Выберите способ:"
	msgAskDate      = "Выберите дату:"
	msgUnknownDate  = "Такой даты нет. Выберите дату на клавиатуре:"
	msgAskTime      = "Выберите время:"
	msgUnknownTime  = "Такого времени нет. Выберите время на клавиатуре:"
	msgSlotTaken    = "😔 Это время только что заняли."
	msgNoSlots      = "⏳ Нет свободного времени. Оставить заявку?"
	msgRequestSaved = "✅ Заявка сохранена."
	msgRestart      = "Чтобы начать заново, нажмите кнопку:"
	msgCancelled    = "Запись отменена."
	msgNoActive     = "Нет активной записи."

	msgTableAccessError = "❌ Ошибка доступа к таблице. Попробуйте позже."
	msgTableWriteError  = "❌ Ошибка записи в таблицу. Попробуйте позже."
	msgInternalError    = "❌ Произошла ошибка. Попробуйте позже."
)

var (
	classChoices   = [][]string{{"6", "7", "8"}, {"9", "10", "11"}}
	subjectChoices = [][]string{{"Геометрия", "Алгебра"}, {"Стереометрия"}}
)

func startKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]string{{labelBook}}, OneTime: true}
}

func restartKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]string{{labelRestart}}, OneTime: true}
}

func contactKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]string{{labelTelegram, labelPhone}, {labelEmail, labelDone}}}
}

func skipKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]string{{labelSkip}}}
}

func yesNoKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]string{{labelYes, labelNo}}, OneTime: true}
}

func choicesKeyboard(rows [][]string) *Keyboard {
	return &Keyboard{Rows: rows, OneTime: true}
}

func restartReply() Reply {
	return keyboardReply(msgRestart, restartKeyboard())
}

func welcomeReply() Reply {
	return keyboardReply(msgWelcome, startKeyboard())
}

// summary текст заявки, который пользователь сохраняет себе
func summary(r *model.BookingRecord) string {
	var b strings.Builder
	b.WriteString("📝 Ваша заявка:\n")
	fmt.Fprintf(&b, "▫️ Имя: %s\n", orDefault(r.Name, "не указано"))
	fmt.Fprintf(&b, "▫️ Класс: %s\n", orDefault(r.Class, "не указан"))
	fmt.Fprintf(&b, "▫️ Предмет: %s\n", orDefault(r.Subject, "не указан"))
	fmt.Fprintf(&b, "▫️ Тема: %s\n", orDefault(r.Topic, "не указана"))
	fmt.Fprintf(&b, "▫️ Дата: %s\n", orDefault(r.Time, "не указана"))
	fmt.Fprintf(&b, "▫️ Контакты: %s\n\n", orDefault(model.FormatContacts(r.Contacts), "не указаны"))
	b.WriteString("⚠️ Сохраните это сообщение.")
	return b.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// errorMessage текст для пользователя по ошибке хранилища
func errorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrWriteFailed):
		return msgTableWriteError
	case errors.Is(err, repository.ErrUnavailable), errors.Is(err, repository.ErrSlotNotFound):
		return msgTableAccessError
	default:
		return msgInternalError
	}
}
