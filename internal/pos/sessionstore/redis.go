// Package sessionstore persists live register sessions between requests.
package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/farmapunto/pos-backend/internal/pos"
	"github.com/farmapunto/pos-backend/pkg/redis"
)

// RedisStore keeps each register's session as a JSON document under a
// namespaced key with a TTL. Abandoned sessions expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wires the store with the shared redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Load(ctx context.Context, registerID string) (*pos.Session, error) {
	payload, err := s.client.Get(ctx, s.client.SessionKey(registerID))
	if err != nil {
		if redis.IsNil(err) {
			return nil, pos.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session pos.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *RedisStore) Save(ctx context.Context, session *pos.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.client.SessionKey(session.RegisterID), payload, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, registerID string) error {
	if err := s.client.Del(ctx, s.client.SessionKey(registerID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
