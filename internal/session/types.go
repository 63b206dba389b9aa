package session

import (
	"time"

	"github.com/Freeeeeet/lesson_booking_bot/internal/model"
)

// State текущий шаг диалога записи
type State string

const (
	StateStart State = "" // Нет активной записи

	// Анкета
	StateName    State = "name"
	StateClass   State = "class"
	StateSubject State = "subject"
	StateTopic   State = "topic"

	// Способы связи
	StateContact State = "contact"
	StatePhone   State = "phone"
	StateEmail   State = "email"

	// Выбор слота
	StateDateSelect   State = "date_select"
	StateTimeSelect   State = "time_select"
	StateLeaveRequest State = "leave_request"
)

// Session данные одного диалога
type Session struct {
	ChatID int64                `json:"chat_id"`
	State  State                `json:"state"`
	Record *model.BookingRecord `json:"record"`

	// SelectedDate выбранная дата в StateTimeSelect и StateLeaveRequest
	SelectedDate string `json:"selected_date,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// New создаёт сессию в начале анкеты
func New(chatID int64, record *model.BookingRecord) *Session {
	return &Session{
		ChatID: chatID,
		State:  StateName,
		Record: record,
	}
}

// Clone возвращает копию, не разделяющую заявку с оригиналом
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Record = s.Record.Clone()
	return &c
}
