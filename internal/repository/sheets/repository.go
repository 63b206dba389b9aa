// Package sheets хранит таблицу слотов в Google Sheets.
//
// Лист с датой содержит строку заголовка с колонками time и status, статус и
// поля брони пишутся в пять колонок подряд начиная с колонки статуса.
// Заявки без времени дописываются в отдельный лист-журнал.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Freeeeeet/lesson_booking_bot/internal/model"
	"github.com/Freeeeeet/lesson_booking_bot/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

type Config struct {
	SpreadsheetID   string
	CredentialsFile string
	// PendingSheet лист-журнал заявок. Пусто - первый лист таблицы
	PendingSheet string
	// StatusColumn первая из пяти колонок брони
	StatusColumn      string
	RequestsPerMinute int
}

// Repository реализация SlotRepository поверх Sheets API.
//
// Бронирование сериализуется мьютексом и перед записью перечитывает статус
// строки. Это защищает от гонки внутри процесса; другие процессы, пишущие
// в ту же таблицу, по-прежнему могут перезаписать бронь
type Repository struct {
	srv           *sheetsapi.Service
	spreadsheetID string
	statusCol     int
	pendingSheet  string
	limiter       *rate.Limiter
	logger        *zap.Logger

	writeMu sync.Mutex

	ledgerMu sync.Mutex
	ledger   string
}

// New создаёт клиент. opts добавляются после учётных данных
func New(ctx context.Context, cfg Config, logger *zap.Logger, opts ...option.ClientOption) (*Repository, error) {
	statusCol, err := columnIndex(cfg.StatusColumn)
	if err != nil {
		return nil, fmt.Errorf("status column: %w", err)
	}

	clientOpts := make([]option.ClientOption, 0, len(opts)+1)
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	srv, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
		burst = max(1, cfg.RequestsPerMinute/10)
	}

	return &Repository{
		srv:           srv,
		spreadsheetID: cfg.SpreadsheetID,
		statusCol:     statusCol,
		pendingSheet:  cfg.PendingSheet,
		limiter:       rate.NewLimiter(limit, burst),
		logger:        logger,
	}, nil
}

func (r *Repository) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w: %w", repository.ErrUnavailable, err)
	}
	return nil
}

// sheetTitles возвращает названия листов в порядке следования
func (r *Repository) sheetTitles(ctx context.Context) ([]string, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	ss, err := r.srv.Spreadsheets.Get(r.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w: %w", repository.ErrUnavailable, err)
	}

	titles := make([]string, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return titles, nil
}

// ledgerSheet лист для заявок. Если не задан в конфиге, берётся первый лист
func (r *Repository) ledgerSheet(ctx context.Context) (string, error) {
	if r.pendingSheet != "" {
		return r.pendingSheet, nil
	}

	r.ledgerMu.Lock()
	defer r.ledgerMu.Unlock()
	if r.ledger != "" {
		return r.ledger, nil
	}

	titles, err := r.sheetTitles(ctx)
	if err != nil {
		return "", err
	}
	if len(titles) == 0 {
		return "", fmt.Errorf("spreadsheet has no sheets: %w", repository.ErrSlotNotFound)
	}
	r.ledger = titles[0]
	return r.ledger, nil
}

// ListTables возвращает листы с датами, без листа-журнала
func (r *Repository) ListTables(ctx context.Context) ([]string, error) {
	titles, err := r.sheetTitles(ctx)
	if err != nil {
		return nil, err
	}

	ledger := r.pendingSheet
	if ledger == "" && len(titles) > 0 {
		ledger = titles[0]
	}

	tables := make([]string, 0, len(titles))
	for _, t := range titles {
		if t != ledger {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

// ListRows читает лист целиком и разбирает строки по заголовку
func (r *Repository) ListRows(ctx context.Context, table string) ([]model.Slot, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	vr, err := r.srv.Spreadsheets.Values.Get(r.spreadsheetID, quoteSheet(table)).Context(ctx).Do()
	if err != nil {
		return nil, classify("read sheet "+table, err)
	}
	if len(vr.Values) == 0 {
		return nil, nil
	}

	h, err := parseHeader(vr.Values[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w: %w", table, repository.ErrSlotNotFound, err)
	}
	// Бронь пишется начиная с колонки из конфига, status в заголовке должен с ней совпадать
	if h.status != r.statusCol {
		r.logger.Warn("Status column mismatch",
			zap.String("sheet", table),
			zap.String("header", columnLetter(h.status)),
			zap.String("configured", columnLetter(r.statusCol)))
		return nil, fmt.Errorf("read sheet %s: %w: status header in column %s, configured %s",
			table, repository.ErrSlotNotFound, columnLetter(h.status), columnLetter(r.statusCol))
	}

	slots := make([]model.Slot, 0, len(vr.Values)-1)
	for i, row := range vr.Values[1:] {
		slots = append(slots, model.Slot{
			Row:      i + repository.FirstDataRow,
			Time:     cell(row, h.time),
			Status:   model.SlotStatus(cell(row, h.status)),
			BookedBy: cell(row, r.statusCol+1),
			Subject:  cell(row, r.statusCol+2),
			Topic:    cell(row, r.statusCol+3),
			Contacts: cell(row, r.statusCol+4),
		})
	}
	return slots, nil
}

// WriteBookingFields перечитывает статус строки и пишет поля брони одним запросом
func (r *Repository) WriteBookingFields(ctx context.Context, table string, row int, f model.BookingFields) error {
	if row < repository.FirstDataRow {
		return fmt.Errorf("write booking %s row %d: %w", table, row, repository.ErrSlotNotFound)
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	lastCol := r.statusCol + bookingColumns - 1

	if err := r.wait(ctx); err != nil {
		return err
	}
	current, err := r.srv.Spreadsheets.Values.Get(r.spreadsheetID, rowRange(table, 0, lastCol, row)).Context(ctx).Do()
	if err != nil {
		return classify("read row", err)
	}
	if len(current.Values) == 0 || len(current.Values[0]) == 0 {
		return fmt.Errorf("write booking %s row %d: %w", table, row, repository.ErrSlotNotFound)
	}
	if status := model.SlotStatus(cell(current.Values[0], r.statusCol)); !status.IsAvailable() {
		r.logger.Info("Slot already taken",
			zap.String("sheet", table),
			zap.Int("row", row),
			zap.String("status", string(status)))
		return fmt.Errorf("write booking %s row %d: %w", table, row, repository.ErrSlotTaken)
	}

	values := make([]any, 0, bookingColumns)
	for _, v := range f.Values() {
		values = append(values, v)
	}

	if err := r.wait(ctx); err != nil {
		return err
	}
	_, err = r.srv.Spreadsheets.Values.Update(
		r.spreadsheetID,
		rowRange(table, r.statusCol, lastCol, row),
		&sheetsapi.ValueRange{Values: [][]any{values}},
	).ValueInputOption(valueInputRaw).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write booking: %w: %w", repository.ErrUnavailable, err)
	}
	return nil
}

// AppendPendingRequest дописывает строку в лист-журнал
func (r *Repository) AppendPendingRequest(ctx context.Context, req model.PendingRequest) error {
	ledger, err := r.ledgerSheet(ctx)
	if err != nil {
		return err
	}

	values := make([]any, 0, 7)
	for _, v := range req.Values() {
		values = append(values, v)
	}

	if err := r.wait(ctx); err != nil {
		return err
	}
	_, err = r.srv.Spreadsheets.Values.Append(
		r.spreadsheetID,
		quoteSheet(ledger)+"!A1",
		&sheetsapi.ValueRange{Values: [][]any{values}},
	).ValueInputOption(valueInputRaw).InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append pending request: %w: %w", repository.ErrUnavailable, err)
	}
	return nil
}

// classify отличает несуществующий лист от недоступности API
func classify(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusBadRequest || gerr.Code == http.StatusNotFound) {
		return fmt.Errorf("%s: %w: %w", op, repository.ErrSlotNotFound, err)
	}
	return fmt.Errorf("%s: %w: %w", op, repository.ErrUnavailable, err)
}
