package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore хранит сессии в памяти процесса
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session // chatID -> Session
	now      func() time.Time
}

// NewMemoryStore создаёт пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]*Session),
		now:      time.Now,
	}
}

// Get возвращает копию сессии, чтобы избежать race condition
func (m *MemoryStore) Get(_ context.Context, chatID int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, exists := m.sessions[chatID]; exists {
		return s.Clone(), nil
	}
	return nil, nil
}

// Save сохраняет копию сессии. StateStart удаляет запись
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.State == StateStart {
		delete(m.sessions, s.ChatID)
		return nil
	}

	c := s.Clone()
	c.UpdatedAt = m.now()
	m.sessions[s.ChatID] = c
	return nil
}

// Delete удаляет сессию
func (m *MemoryStore) Delete(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, chatID)
	return nil
}

// Sweep удаляет сессии, не обновлявшиеся с olderThan
func (m *MemoryStore) Sweep(_ context.Context, olderThan time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(olderThan) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len количество активных сессий
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
