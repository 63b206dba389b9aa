// Package postgres хранит таблицу слотов в PostgreSQL. Лист соответствует
// значению колонки sheet, номер строки - row_index.
package postgres

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lesson_booking_bot/internal/model"
	"github.com/Freeeeeet/lesson_booking_bot/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

// ListTables возвращает все даты, для которых есть слоты
func (r *SlotRepository) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT sheet
		FROM slots
		ORDER BY sheet
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w: %w", repository.ErrUnavailable, err)
	}
	defer rows.Close()

	var sheets []string
	for rows.Next() {
		var sheet string
		if err := rows.Scan(&sheet); err != nil {
			return nil, fmt.Errorf("scan sheet: %w", err)
		}
		sheets = append(sheets, sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sheets: %w: %w", repository.ErrUnavailable, err)
	}

	return sheets, nil
}

// ListRows получает строки листа в порядке row_index
func (r *SlotRepository) ListRows(ctx context.Context, table string) ([]model.Slot, error) {
	query := `
		SELECT row_index, time, status, booked_by, subject, topic, contacts
		FROM slots
		WHERE sheet = $1
		ORDER BY row_index
	`

	rows, err := r.pool.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w: %w", repository.ErrUnavailable, err)
	}
	defer rows.Close()

	var slots []model.Slot
	for rows.Next() {
		var slot model.Slot
		err := rows.Scan(
			&slot.Row,
			&slot.Time,
			&slot.Status,
			&slot.BookedBy,
			&slot.Subject,
			&slot.Topic,
			&slot.Contacts,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots: %w: %w", repository.ErrUnavailable, err)
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("list slots %s: %w", table, repository.ErrSlotNotFound)
	}

	return slots, nil
}

// WriteBookingFields бронирует слот одним условным UPDATE
func (r *SlotRepository) WriteBookingFields(ctx context.Context, table string, row int, f model.BookingFields) error {
	query := `
		UPDATE slots
		SET status = $1, booked_by = $2, subject = $3, topic = $4, contacts = $5, updated_at = now()
		WHERE sheet = $6 AND row_index = $7 AND lower(trim(status)) = 'available'
	`

	result, err := r.pool.Exec(ctx, query, f.Status, f.Name, f.Subject, f.Topic, f.Contacts, table, row)
	if err != nil {
		return fmt.Errorf("book slot: %w: %w", repository.ErrUnavailable, err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	exists, err := r.slotExists(ctx, table, row)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("book slot %s row %d: %w", table, row, repository.ErrSlotNotFound)
	}
	return fmt.Errorf("book slot %s row %d: %w", table, row, repository.ErrSlotTaken)
}

func (r *SlotRepository) slotExists(ctx context.Context, table string, row int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM slots
			WHERE sheet = $1 AND row_index = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, table, row).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slot exists: %w: %w", repository.ErrUnavailable, err)
	}
	return exists, nil
}

// AppendPendingRequest добавляет заявку в журнал
func (r *SlotRepository) AppendPendingRequest(ctx context.Context, req model.PendingRequest) error {
	query := `
		INSERT INTO pending_requests (id, date, time, status, name, subject, topic, contacts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		req.ID,
		req.Date,
		req.Time,
		req.Status,
		req.Name,
		req.Subject,
		req.Topic,
		req.Contacts,
	)
	if err != nil {
		return fmt.Errorf("append pending request: %w: %w", repository.ErrUnavailable, err)
	}
	return nil
}
