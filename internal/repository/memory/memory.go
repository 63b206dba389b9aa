// Package memory хранит таблицу слотов в памяти процесса.
// Используется в тестах и для локального запуска без внешнего хранилища.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Freeeeeet/lesson_booking_bot/internal/model"
	"github.com/Freeeeeet/lesson_booking_bot/internal/repository"
)

type Repository struct {
	mu      sync.Mutex
	tables  map[string][]model.Slot
	order   []string
	pending []model.PendingRequest

	// Для тестов: ошибки, которые вернут соответствующие методы
	ListTablesErr error
	ListRowsErr   error
	WriteErr      error
	AppendErr     error
}

func New() *Repository {
	return &Repository{tables: make(map[string][]model.Slot)}
}

// AddTable создаёт лист с указанными временами в статусе available
func (r *Repository) AddTable(table string, times ...string) {
	slots := make([]model.Slot, 0, len(times))
	for _, t := range times {
		slots = append(slots, model.Slot{Time: t, Status: model.SlotStatusAvailable})
	}
	r.SetRows(table, slots)
}

// SetRows заменяет строки листа. Номера строк проставляются заново
func (r *Repository) SetRows(table string, slots []model.Slot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[table]; !exists {
		r.order = append(r.order, table)
	}
	rows := make([]model.Slot, len(slots))
	for i, s := range slots {
		s.Row = i + repository.FirstDataRow
		rows[i] = s
	}
	r.tables[table] = rows
}

func (r *Repository) ListTables(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ListTablesErr != nil {
		return nil, fmt.Errorf("list tables: %w: %w", repository.ErrUnavailable, r.ListTablesErr)
	}
	return append([]string(nil), r.order...), nil
}

func (r *Repository) ListRows(_ context.Context, table string) ([]model.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ListRowsErr != nil {
		return nil, fmt.Errorf("list rows: %w: %w", repository.ErrUnavailable, r.ListRowsErr)
	}
	rows, exists := r.tables[table]
	if !exists {
		return nil, fmt.Errorf("list rows %s: %w", table, repository.ErrSlotNotFound)
	}
	return append([]model.Slot(nil), rows...), nil
}

// WriteBookingFields атомарно меняет available на booked под мьютексом
func (r *Repository) WriteBookingFields(_ context.Context, table string, row int, f model.BookingFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.WriteErr != nil {
		return fmt.Errorf("write booking: %w: %w", repository.ErrUnavailable, r.WriteErr)
	}

	rows := r.tables[table]
	idx := row - repository.FirstDataRow
	if idx < 0 || idx >= len(rows) {
		return fmt.Errorf("write booking %s row %d: %w", table, row, repository.ErrSlotNotFound)
	}
	if !rows[idx].Status.IsAvailable() {
		return fmt.Errorf("write booking %s row %d: %w", table, row, repository.ErrSlotTaken)
	}

	rows[idx].Status = f.Status
	rows[idx].BookedBy = f.Name
	rows[idx].Subject = f.Subject
	rows[idx].Topic = f.Topic
	rows[idx].Contacts = f.Contacts
	return nil
}

func (r *Repository) AppendPendingRequest(_ context.Context, req model.PendingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.AppendErr != nil {
		return fmt.Errorf("append pending request: %w: %w", repository.ErrUnavailable, r.AppendErr)
	}
	r.pending = append(r.pending, req)
	return nil
}

// Pending возвращает журнал заявок
func (r *Repository) Pending() []model.PendingRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.PendingRequest(nil), r.pending...)
}
