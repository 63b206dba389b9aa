// Package session хранит незавершённые записи, по одной на чат.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrStoreUnavailable = errors.New("session store unavailable")

// Store хранилище сессий по идентификатору чата.
// Get возвращает (nil, nil), если сессии нет
type Store interface {
	Get(ctx context.Context, chatID int64) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, chatID int64) error
}

// Sweeper удаляет брошенные сессии
type Sweeper interface {
	Sweep(ctx context.Context, olderThan time.Time) int
}
