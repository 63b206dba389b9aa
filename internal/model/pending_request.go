package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PendingDateLayout = "2006-01-02"
	PendingTimeLayout = "15:04"
)

// PendingRequest заявка без времени, когда свободных слотов нет
type PendingRequest struct {
	ID       uuid.UUID  `json:"id"`
	Date     string     `json:"date"`
	Time     string     `json:"time"`
	Status   SlotStatus `json:"status"`
	Name     string     `json:"name"`
	Subject  string     `json:"subject"`
	Topic    string     `json:"topic"`
	Contacts string     `json:"contacts"`
}

// NewPendingRequest собирает заявку из записи на момент подачи
func NewPendingRequest(r *BookingRecord, at time.Time) PendingRequest {
	return PendingRequest{
		ID:       uuid.New(),
		Date:     at.Format(PendingDateLayout),
		Time:     at.Format(PendingTimeLayout),
		Status:   SlotStatusPending,
		Name:     r.Name,
		Subject:  r.Subject,
		Topic:    r.Topic,
		Contacts: FormatContacts(r.Contacts),
	}
}

// Values строка для листа заявок
func (p PendingRequest) Values() []string {
	return []string{p.Date, p.Time, string(p.Status), p.Name, p.Subject, p.Topic, p.Contacts}
}
