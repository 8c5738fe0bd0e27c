package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "crowdfund:session:"

// RedisSessionStore is a Redis-backed SessionStore, for deployments that run
// several replicas and need shared revocation state.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore wraps an existing client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Put records token as the subject's only live session.
func (s *RedisSessionStore) Put(ctx context.Context, subjectID, token string, ttl time.Duration) error {
	key := sessionKeyPrefix + subjectID
	if err := s.client.Set(ctx, key, token, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get returns the live token for the subject, if any.
func (s *RedisSessionStore) Get(ctx context.Context, subjectID string) (string, bool, error) {
	key := sessionKeyPrefix + subjectID
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load session: %w", err)
	}
	return val, true, nil
}

// Delete removes the subject's session entry.
func (s *RedisSessionStore) Delete(ctx context.Context, subjectID string) error {
	key := sessionKeyPrefix + subjectID
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
