package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/lesson_booking_bot/internal/app"
	"github.com/Freeeeeet/lesson_booking_bot/internal/config"
	"github.com/Freeeeeet/lesson_booking_bot/internal/controller"
	"github.com/Freeeeeet/lesson_booking_bot/internal/conversation"
	"github.com/Freeeeeet/lesson_booking_bot/internal/notify"
	"github.com/Freeeeeet/lesson_booking_bot/internal/repository"
	"github.com/Freeeeeet/lesson_booking_bot/internal/repository/postgres"
	"github.com/Freeeeeet/lesson_booking_bot/internal/repository/sheets"
	"github.com/Freeeeeet/lesson_booking_bot/internal/service"
	"github.com/Freeeeeet/lesson_booking_bot/internal/session"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Sugar().Infow("Starting lesson booking bot",
		"environment", cfg.Environment,
		"slot_backend", cfg.SlotBackend,
		"session_backend", cfg.SessionBackend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Bot exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	slots, closeSlots, err := newSlotRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSlots()

	sessions, closeSessions, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	var notifier notify.Notifier = notify.Nop{}
	if cfg.AMQPURL != "" {
		notifier = notify.NewAMQPNotifier(cfg.AMQPURL, logger)
		logger.Info("Booking events enabled")
	}

	bookingService := service.NewBookingService(slots, logger, service.WithNotifier(notifier))
	engine := conversation.NewEngine(bookingService, sessions, logger)

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	botController := controller.NewBotController(b, engine, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично, бот работает и без него
		logger.Warn("Failed to register bot commands", zap.Error(err))
	}

	botController.Start(ctx)
	return nil
}

func newSlotRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.SlotRepository, func(), error) {
	switch cfg.SlotBackend {
	case config.SlotBackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}

		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		defer func() { _ = migrator.Close() }()
		if err := migrator.Run(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		logger.Info("✅ Connected to postgres")
		return postgres.NewSlotRepository(pool), pool.Close, nil

	default:
		repo, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:     cfg.GoogleSheetID,
			CredentialsFile:   cfg.GoogleCredentialsFile,
			PendingSheet:      cfg.SheetsPendingSheet,
			StatusColumn:      cfg.SheetsStatusColumn,
			RequestsPerMinute: cfg.SheetsRequestsPerMinute,
		}, logger)
		if err != nil {
			return nil, nil, err
		}

		logger.Info("✅ Google Sheets client ready")
		return repo, func() {}, nil
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := session.NewRedisStore(client, cfg.SessionTTL)

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}

		logger.Info("✅ Connected to redis", zap.String("addr", cfg.RedisAddr))
		return store, func() { _ = client.Close() }, nil

	default:
		store := session.NewMemoryStore()
		scheduler := app.NewScheduler(store, cfg.SessionTTL, cfg.SessionSweepInterval, logger)
		scheduler.Start(ctx)
		return store, scheduler.Stop, nil
	}
}
