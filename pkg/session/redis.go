package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisManager stores each session as a JSON document under session:<id>
// with the TTL applied through Redis key expiry. Use this when running
// more than one instance behind a balancer.
type RedisManager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisManager(client *redis.Client, ttl time.Duration) *RedisManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisManager{client: client, ttl: ttl}
}

func sessionKey(id string) string { return "session:" + id }

func (m *RedisManager) Create(ctx context.Context, userID uuid.UUID, userName string) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	s := Session{
		ID:        id,
		UserID:    userID,
		UserName:  userName,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	if err := m.client.Set(ctx, sessionKey(id), payload, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

func (m *RedisManager) Load(ctx context.Context, id string) (Session, error) {
	payload, err := m.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	// Redis expiry already covers the TTL; this guards against clock skew
	// between instances.
	if time.Now().After(s.ExpiresAt) {
		_ = m.client.Del(ctx, sessionKey(id)).Err()
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *RedisManager) Destroy(ctx context.Context, id string) error {
	n, err := m.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
