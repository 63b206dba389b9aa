package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/lesson_booking_bot/internal/session"
	"go.uber.org/zap"
)

// Scheduler периодически удаляет брошенные диалоги из памяти
type Scheduler struct {
	sweeper  session.Sweeper
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(sweeper session.Sweeper, ttl, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновую очистку
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting session sweeper",
		zap.Duration("ttl", s.ttl),
		zap.Duration("interval", s.interval))

	go s.runSweepTask(ctx)
}

// Stop останавливает очистку и ждёт завершения
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping session sweeper")
	close(s.stopChan)
	<-s.done
}

func (s *Scheduler) runSweepTask(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Session sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Session sweep task cancelled")
			return
		}
	}
}

// sweep удаляет сессии, не менявшиеся дольше ttl
func (s *Scheduler) sweep(ctx context.Context) int {
	removed := s.sweeper.Sweep(ctx, s.now().Add(-s.ttl))
	if removed > 0 {
		s.logger.Info("Expired sessions removed", zap.Int("count", removed))
	}
	return removed
}
