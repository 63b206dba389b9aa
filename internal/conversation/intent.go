package conversation

import (
	"strings"

	"github.com/Freeeeeet/lesson_booking_bot/internal/session"
)

// Intent смысл ответа пользователя в текущем состоянии.
// Переходы автомата зависят только от него, а не от подписей кнопок
type Intent int

const (
	IntentUnrecognized Intent = iota
	IntentBegin
	IntentText
	IntentTelegram
	IntentPhone
	IntentEmail
	IntentDone
	IntentSkip
	IntentYes
	IntentNo
)

func (i Intent) String() string {
	switch i {
	case IntentBegin:
		return "begin"
	case IntentText:
		return "text"
	case IntentTelegram:
		return "telegram"
	case IntentPhone:
		return "phone"
	case IntentEmail:
		return "email"
	case IntentDone:
		return "done"
	case IntentSkip:
		return "skip"
	case IntentYes:
		return "yes"
	case IntentNo:
		return "no"
	default:
		return "unrecognized"
	}
}

// Decode переводит текст в Intent для состояния. text уже без пробелов по краям
func Decode(state session.State, text string) Intent {
	if text == "" || strings.HasPrefix(text, "/") {
		return IntentUnrecognized
	}

	switch state {
	case session.StateStart:
		if matches(text, labelBook, labelRestart) {
			return IntentBegin
		}
		return IntentUnrecognized

	case session.StateContact:
		switch {
		case matches(text, labelTelegram):
			return IntentTelegram
		case matches(text, labelPhone):
			return IntentPhone
		case matches(text, labelEmail):
			return IntentEmail
		case matches(text, labelDone):
			return IntentDone
		}
		return IntentUnrecognized

	case session.StatePhone, session.StateEmail:
		if matches(text, labelSkip) {
			return IntentSkip
		}
		return IntentText

	case session.StateLeaveRequest:
		if matches(text, labelYes) {
			return IntentYes
		}
		return IntentNo

	case session.StateName, session.StateClass, session.StateSubject, session.StateTopic,
		session.StateDateSelect, session.StateTimeSelect:
		return IntentText
	}

	return IntentUnrecognized
}

func matches(text string, labels ...string) bool {
	for _, l := range labels {
		if strings.EqualFold(text, l) {
			return true
		}
	}
	return false
}
