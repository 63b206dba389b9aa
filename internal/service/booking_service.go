package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/lesson_booking_bot/internal/model"
	"github.com/Freeeeeet/lesson_booking_bot/internal/notify"
	"github.com/Freeeeeet/lesson_booking_bot/internal/repository"
	"go.uber.org/zap"
)

var (
	// ErrUnknownTime выбранного времени нет в расписании на дату
	ErrUnknownTime = errors.New("time not in schedule")
	// ErrWriteFailed слот не удалось записать; оборачивает ошибку хранилища
	ErrWriteFailed = errors.New("booking write failed")
)

type BookingService struct {
	slots    repository.SlotRepository
	notifier notify.Notifier
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(*BookingService)

// WithNotifier задаёт получателя событий о записях
func WithNotifier(n notify.Notifier) Option {
	return func(s *BookingService) {
		s.notifier = n
	}
}

// WithClock подменяет часы, используется в тестах
func WithClock(now func() time.Time) Option {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(slots repository.SlotRepository, logger *zap.Logger, opts ...Option) *BookingService {
	s := &BookingService{
		slots:    slots,
		notifier: notify.Nop{},
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dates возвращает даты, на которые есть расписание
func (s *BookingService) Dates(ctx context.Context) ([]string, error) {
	dates, err := s.slots.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dates: %w", err)
	}
	return dates, nil
}

// FreeTimes возвращает свободное время на дату в порядке расписания.
// Для неизвестной даты - repository.ErrSlotNotFound
func (s *BookingService) FreeTimes(ctx context.Context, date string) ([]string, error) {
	rows, err := s.slots.ListRows(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list times: %w", err)
	}
	return model.AvailableTimes(rows), nil
}

// BookSlot бронирует время по свежему чтению расписания.
// При успехе записывает время в r и публикует booking.confirmed.
// Если время заняли - repository.ErrSlotTaken, заявка не меняется
func (s *BookingService) BookSlot(ctx context.Context, chatID int64, date, tm string, r *model.BookingRecord) error {
	rows, err := s.slots.ListRows(ctx, date)
	if err != nil {
		return fmt.Errorf("read schedule: %w", err)
	}

	slot, ok := model.FindAvailable(rows, tm)
	if !ok {
		if hasTime(rows, tm) {
			return fmt.Errorf("book %s %s: %w", date, tm, repository.ErrSlotTaken)
		}
		return fmt.Errorf("book %s %s: %w", date, tm, ErrUnknownTime)
	}

	fields := model.BookingFields{
		Status:   model.SlotStatusBooked,
		Name:     r.Name,
		Subject:  r.Subject,
		Topic:    r.Topic,
		Contacts: model.FormatContacts(r.Contacts),
	}

	err = s.slots.WriteBookingFields(ctx, date, slot.Row, fields)
	switch {
	case errors.Is(err, repository.ErrSlotTaken), errors.Is(err, repository.ErrSlotNotFound):
		s.logger.Info("Slot lost to another booking",
			zap.Int64("chat_id", chatID),
			zap.String("date", date),
			zap.String("time", tm))
		return fmt.Errorf("book %s %s: %w", date, tm, repository.ErrSlotTaken)
	case err != nil:
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	r.Time = date + " " + slot.Time

	s.logger.Info("Slot booked",
		zap.Int64("chat_id", chatID),
		zap.String("date", date),
		zap.String("time", slot.Time),
		zap.Int("row", slot.Row))

	s.publish(ctx, notify.NewBookingEvent(notify.EventBookingConfirmed, chatID, r, date, slot.Time, s.now()))
	return nil
}

// SubmitPendingRequest сохраняет заявку без времени и публикует booking.pending.
// date - дата, на которую не нашлось времени, может быть пустой.
// Ошибка журнала возвращается, но событие публикуется в любом случае
func (s *BookingService) SubmitPendingRequest(ctx context.Context, chatID int64, date string, r *model.BookingRecord) error {
	now := s.now()
	req := model.NewPendingRequest(r, now)

	err := s.slots.AppendPendingRequest(ctx, req)
	if err == nil {
		s.logger.Info("Pending request saved",
			zap.Int64("chat_id", chatID),
			zap.String("request_id", req.ID.String()))
	}

	s.publish(ctx, notify.NewBookingEvent(notify.EventBookingPending, chatID, r, date, "", now))

	if err != nil {
		return fmt.Errorf("save pending request %s: %w", req.ID, err)
	}
	return nil
}

func (s *BookingService) publish(ctx context.Context, event notify.BookingEvent) {
	if err := s.notifier.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish booking event",
			zap.String("type", string(event.Type)),
			zap.String("event_id", event.ID.String()),
			zap.Error(err))
	}
}

func hasTime(rows []model.Slot, t string) bool {
	for _, r := range rows {
		if r.Time == t {
			return true
		}
	}
	return false
}
