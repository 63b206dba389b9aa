package model

import (
	"fmt"
	"strings"
)

type ContactMethod string

const (
	ContactTelegram ContactMethod = "Telegram"
	ContactPhone    ContactMethod = "Phone"
	ContactEmail    ContactMethod = "Email"
)

// ContactOrder порядок вывода контактов
var ContactOrder = []ContactMethod{ContactTelegram, ContactPhone, ContactEmail}

// Label возвращает подпись способа связи для пользователя
func (m ContactMethod) Label() string {
	switch m {
	case ContactPhone:
		return "Телефон"
	default:
		return string(m)
	}
}

// BookingRecord заявка, которую собирает один активный диалог
type BookingRecord struct {
	// Данные из Telegram, заполняются при старте
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Handle    string `json:"handle"`

	Name    string `json:"name"`
	Class   string `json:"class"`
	Subject string `json:"subject"`
	Topic   string `json:"topic"`

	Contacts map[ContactMethod]string `json:"contacts"`

	// Time "<дата> <время>", пишется один раз перед сохранением
	Time string `json:"time,omitempty"`
}

// NewBookingRecord создаёт пустую заявку с данными пользователя
func NewBookingRecord(firstName, lastName, handle string) *BookingRecord {
	return &BookingRecord{
		FirstName: firstName,
		LastName:  lastName,
		Handle:    handle,
		Contacts:  make(map[ContactMethod]string),
	}
}

// TelegramContact имя и фамилия, либо @handle если они пустые
func (r *BookingRecord) TelegramContact() string {
	full := strings.TrimSpace(r.FirstName + " " + r.LastName)
	if full != "" {
		return full
	}
	return "@" + r.Handle
}

// SetContact добавляет или перезаписывает способ связи
func (r *BookingRecord) SetContact(method ContactMethod, value string) {
	if r.Contacts == nil {
		r.Contacts = make(map[ContactMethod]string)
	}
	r.Contacts[method] = value
}

// Clone возвращает глубокую копию заявки
func (r *BookingRecord) Clone() *BookingRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Contacts = make(map[ContactMethod]string, len(r.Contacts))
	for k, v := range r.Contacts {
		c.Contacts[k] = v
	}
	return &c
}

// FormatContacts склеивает контакты в строку "Telegram: ...; Телефон: ..."
func FormatContacts(contacts map[ContactMethod]string) string {
	parts := make([]string, 0, len(contacts))
	for _, m := range ContactOrder {
		if v, ok := contacts[m]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", m.Label(), v))
		}
	}
	return strings.Join(parts, "; ")
}
