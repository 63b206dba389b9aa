// Package notify публикует события о записях для преподавателя.
// Публикация best-effort: ошибки логируются и возвращаются, но диалог
// с пользователем от них не зависит.
package notify

import (
	"context"
	"time"

	"github.com/Freeeeeet/lesson_booking_bot/internal/model"
	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingPending   EventType = "booking.pending"
)

// BookingEvent содержит всё, что нужно получателю, без обращения к таблице
type BookingEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	ChatID     int64     `json:"chat_id"`
	Date       string    `json:"date,omitempty"`
	Time       string    `json:"time,omitempty"`
	Name       string    `json:"name"`
	Class      string    `json:"class"`
	Subject    string    `json:"subject"`
	Topic      string    `json:"topic"`
	Contacts   string    `json:"contacts"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewBookingEvent собирает событие из заявки
func NewBookingEvent(typ EventType, chatID int64, r *model.BookingRecord, date, tm string, at time.Time) BookingEvent {
	return BookingEvent{
		ID:         uuid.New(),
		Type:       typ,
		ChatID:     chatID,
		Date:       date,
		Time:       tm,
		Name:       r.Name,
		Class:      r.Class,
		Subject:    r.Subject,
		Topic:      r.Topic,
		Contacts:   model.FormatContacts(r.Contacts),
		OccurredAt: at.UTC(),
	}
}

type Notifier interface {
	Publish(ctx context.Context, event BookingEvent) error
}

// Nop ничего не публикует
type Nop struct{}

func (Nop) Publish(context.Context, BookingEvent) error { return nil }
