package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "campbot:session:"

// RedisSessionStore keeps sessions in redis so they survive a bot restart.
// Abandoned flows expire after ttl.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(user UserID) string {
	return fmt.Sprintf("%s%d", sessionKeyPrefix, user)
}

func (r *RedisSessionStore) GetSession(ctx context.Context, user UserID) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(user)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %d: %w", user, err)
	}
	session := &Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("decode session %d: %w", user, err)
	}
	return session, nil
}

func (r *RedisSessionStore) SetSession(ctx context.Context, user UserID, session *Session) error {
	if session.IsIdle() {
		return r.ClearSession(ctx, user)
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %d: %w", user, err)
	}
	if err := r.client.Set(ctx, sessionKey(user), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %d: %w", user, err)
	}
	return nil
}

func (r *RedisSessionStore) ClearSession(ctx context.Context, user UserID) error {
	if err := r.client.Del(ctx, sessionKey(user)).Err(); err != nil {
		return fmt.Errorf("clear session %d: %w", user, err)
	}
	return nil
}
