package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/lesson_booking_bot/internal/model"
	"github.com/Freeeeeet/lesson_booking_bot/internal/notify"
	"github.com/Freeeeeet/lesson_booking_bot/internal/repository"
	"github.com/Freeeeeet/lesson_booking_bot/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	events []notify.BookingEvent
	err    error
}

func (n *recordingNotifier) Publish(_ context.Context, ev notify.BookingEvent) error {
	n.events = append(n.events, ev)
	return n.err
}

var fixedNow = time.Date(2024, 5, 1, 9, 15, 0, 0, time.UTC)

func newTestService(t *testing.T) (*BookingService, *memory.Repository, *recordingNotifier) {
	t.Helper()
	repo := memory.New()
	n := &recordingNotifier{}
	svc := NewBookingService(repo, zap.NewNop(),
		WithNotifier(n),
		WithClock(func() time.Time { return fixedNow }))
	return svc, repo, n
}

func testRecord() *model.BookingRecord {
	r := model.NewBookingRecord("Анна", "", "anna")
	r.Name = "Анна"
	r.Class = "9"
	r.Subject = "Алгебра"
	r.Topic = "Дроби"
	r.SetContact(model.ContactEmail, "anna@example.com")
	return r
}

func TestBookSlot(t *testing.T) {
	svc, repo, n := newTestService(t)
	ctx := context.Background()
	repo.AddTable("2024-05-01", "10:00", "11:00")

	r := testRecord()
	require.NoError(t, svc.BookSlot(ctx, 42, "2024-05-01", "11:00", r))
	assert.Equal(t, "2024-05-01 11:00", r.Time)

	rows, err := repo.ListRows(ctx, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusAvailable, rows[0].Status)
	assert.Equal(t, model.SlotStatusBooked, rows[1].Status)
	assert.Equal(t, "Email: anna@example.com", rows[1].Contacts)

	require.Len(t, n.events, 1)
	assert.Equal(t, notify.EventBookingConfirmed, n.events[0].Type)
	assert.Equal(t, int64(42), n.events[0].ChatID)
	assert.Equal(t, fixedNow, n.events[0].OccurredAt)

	times, err := svc.FreeTimes(ctx, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00"}, times)
}

func TestBookSlotErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown time", func(t *testing.T) {
		svc, repo, n := newTestService(t)
		repo.AddTable("2024-05-01", "10:00")

		err := svc.BookSlot(ctx, 1, "2024-05-01", "23:00", testRecord())
		assert.ErrorIs(t, err, ErrUnknownTime)
		assert.Empty(t, n.events)
	})

	t.Run("already booked", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.SetRows("2024-05-01", []model.Slot{{Time: "10:00", Status: model.SlotStatusBooked}})

		r := testRecord()
		err := svc.BookSlot(ctx, 1, "2024-05-01", "10:00", r)
		assert.ErrorIs(t, err, repository.ErrSlotTaken)
		assert.Empty(t, r.Time)
	})

	t.Run("write unavailable", func(t *testing.T) {
		svc, repo, n := newTestService(t)
		repo.AddTable("2024-05-01", "10:00")
		repo.WriteErr = errors.New("quota exceeded")

		err := svc.BookSlot(ctx, 1, "2024-05-01", "10:00", testRecord())
		assert.ErrorIs(t, err, ErrWriteFailed)
		assert.ErrorIs(t, err, repository.ErrUnavailable)
		assert.Empty(t, n.events)
	})

	t.Run("read unavailable", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.AddTable("2024-05-01", "10:00")
		repo.ListRowsErr = errors.New("timeout")

		err := svc.BookSlot(ctx, 1, "2024-05-01", "10:00", testRecord())
		assert.ErrorIs(t, err, repository.ErrUnavailable)
		assert.NotErrorIs(t, err, ErrWriteFailed)
	})
}

func TestFreeTimesUnknownDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.FreeTimes(context.Background(), "2099-01-01")
	assert.ErrorIs(t, err, repository.ErrSlotNotFound)
}

func TestDates(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.AddTable("2024-05-02", "10:00")
	repo.AddTable("2024-05-01", "10:00")

	dates, err := svc.Dates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-02", "2024-05-01"}, dates)

	repo.ListTablesErr = errors.New("down")
	_, err = svc.Dates(context.Background())
	assert.ErrorIs(t, err, repository.ErrUnavailable)
}

func TestSubmitPendingRequest(t *testing.T) {
	svc, repo, n := newTestService(t)

	require.NoError(t, svc.SubmitPendingRequest(context.Background(), 7, "2024-05-03", testRecord()))

	pending := repo.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "2024-05-01", pending[0].Date)
	assert.Equal(t, "09:15", pending[0].Time)
	assert.Equal(t, model.SlotStatusPending, pending[0].Status)
	assert.Equal(t, "Email: anna@example.com", pending[0].Contacts)

	require.Len(t, n.events, 1)
	assert.Equal(t, notify.EventBookingPending, n.events[0].Type)
	assert.Equal(t, "2024-05-03", n.events[0].Date)
}

func TestSubmitPendingRequestAppendFailure(t *testing.T) {
	svc, repo, n := newTestService(t)
	repo.AppendErr = errors.New("quota exceeded")

	err := svc.SubmitPendingRequest(context.Background(), 7, "", testRecord())
	assert.ErrorIs(t, err, repository.ErrUnavailable)
	assert.Len(t, n.events, 1, "event is published even when the ledger is down")
}

func TestNotifierFailureIsNotFatal(t *testing.T) {
	svc, repo, n := newTestService(t)
	n.err = errors.New("broker down")
	repo.AddTable("2024-05-01", "10:00")

	assert.NoError(t, svc.BookSlot(context.Background(), 1, "2024-05-01", "10:00", testRecord()))
}
