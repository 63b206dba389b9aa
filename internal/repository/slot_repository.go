package repository

import (
	"context"

	"github.com/Freeeeeet/lesson_booking_bot/internal/model"
)

// FirstDataRow номер первой строки с данными, строка 1 - заголовок
const FirstDataRow = 2

// SlotRepository таблица слотов.
//
// WriteBookingFields выполняет условное обновление available -> booked:
// если строка уже занята, возвращается ErrSlotTaken и ничего не пишется.
// Насколько это атомарно, зависит от реализации
type SlotRepository interface {
	// ListTables возвращает даты (названия листов)
	ListTables(ctx context.Context) ([]string, error)
	// ListRows возвращает строки листа в порядке следования
	ListRows(ctx context.Context, table string) ([]model.Slot, error)
	// WriteBookingFields пишет status, name, subject, topic, contacts в строку row
	WriteBookingFields(ctx context.Context, table string, row int, fields model.BookingFields) error
	// AppendPendingRequest добавляет заявку в журнал
	AppendPendingRequest(ctx context.Context, req model.PendingRequest) error
}
