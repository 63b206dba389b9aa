package model

import "strings"

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusPending   SlotStatus = "pending"
)

// IsAvailable сравнивает статус без учёта регистра.
// Любое значение кроме available считается занятым
func (s SlotStatus) IsAvailable() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(SlotStatusAvailable))
}

// Slot строка листа с датой. Row считается с 1, строка 1 - заголовок
type Slot struct {
	Row      int        `json:"row"`
	Time     string     `json:"time"`
	Status   SlotStatus `json:"status"`
	BookedBy string     `json:"booked_by"`
	Subject  string     `json:"subject"`
	Topic    string     `json:"topic"`
	Contacts string     `json:"contacts"`
}

// BookingFields пять колонок, которые пишутся при бронировании, в этом порядке
type BookingFields struct {
	Status   SlotStatus `json:"status"`
	Name     string     `json:"name"`
	Subject  string     `json:"subject"`
	Topic    string     `json:"topic"`
	Contacts string     `json:"contacts"`
}

// Values возвращает значения в порядке колонок листа
func (f BookingFields) Values() []string {
	return []string{string(f.Status), f.Name, f.Subject, f.Topic, f.Contacts}
}

// AvailableTimes возвращает время свободных слотов, сохраняя порядок строк
func AvailableTimes(slots []Slot) []string {
	times := make([]string, 0, len(slots))
	for _, s := range slots {
		if s.Status.IsAvailable() {
			times = append(times, s.Time)
		}
	}
	return times
}

// FindAvailable ищет первую свободную строку с указанным временем
func FindAvailable(slots []Slot, t string) (Slot, bool) {
	for _, s := range slots {
		if s.Time == t && s.Status.IsAvailable() {
			return s, true
		}
	}
	return Slot{}, false
}
