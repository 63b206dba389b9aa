package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore хранит сессии в Redis в виде JSON с TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore создаёт хранилище. ttl <= 0 означает без срока жизни
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}

func (r *RedisStore) Get(ctx context.Context, chatID int64) (*Session, error) {
	val, err := r.client.Get(ctx, key(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w: %w", ErrStoreUnavailable, err)
	}

	// Сессию старого формата не восстановить, удаляем и начинаем заново
	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		if err := r.Delete(ctx, chatID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	if s.State == StateStart {
		return r.Delete(ctx, s.ChatID)
	}

	c := s.Clone()
	c.UpdatedAt = time.Now()
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key(s.ChatID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, chatID int64) error {
	if err := r.client.Del(ctx, key(chatID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
