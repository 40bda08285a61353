package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gestix/gestix/internal/model"
)

// sessionKeyPrefix is the Redis key prefix for sessions.
const sessionKeyPrefix = "session:"

// storedSession is the session payload persisted in Redis.
type storedSession struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	ExpiresAt int64  `json:"expires_at"` // Unix seconds
}

// marshalSession encodes a session and computes its remaining TTL.
func marshalSession(s *model.Session) ([]byte, time.Duration, error) {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return nil, 0, fmt.Errorf("session already expired")
	}

	data, err := json.Marshal(storedSession{
		UserID:    s.UserID,
		Email:     s.Email,
		ExpiresAt: s.ExpiresAt.Unix(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("marshal session: %w", err)
	}
	return data, ttl, nil
}

// PutSession stores a session keyed by its token hash. The key TTL is
// the session lifetime, so expired sessions vanish on their own.
func (c *Cache) PutSession(ctx context.Context, s *model.Session) error {
	data, ttl, err := marshalSession(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKeyPrefix+s.TokenHash, data, ttl).Err()
}

// GetSession retrieves a session by token hash. A miss returns nil with
// no error; any other Redis failure is propagated so callers can tell a
// missing session from an unreachable backend.
func (c *Cache) GetSession(ctx context.Context, tokenHash string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionKeyPrefix+tokenHash).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		// Corrupted entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.Session{
		TokenHash: tokenHash,
		UserID:    stored.UserID,
		Email:     stored.Email,
		ExpiresAt: time.Unix(stored.ExpiresAt, 0),
	}, nil
}

// DeleteSession removes a session. Deleting a missing session is a no-op:
// sign-out must succeed even after expiry already reaped the key.
func (c *Cache) DeleteSession(ctx context.Context, tokenHash string) error {
	return c.client.Del(ctx, sessionKeyPrefix+tokenHash).Err()
}

// RotateSession replaces the session stored under oldHash with the same
// session re-keyed under its new token hash. SET and DEL run in one
// MULTI so the old token cannot outlive the swap.
func (c *Cache) RotateSession(ctx context.Context, oldHash string, s *model.Session) error {
	data, ttl, err := marshalSession(s)
	if err != nil {
		return err
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKeyPrefix+s.TokenHash, data, ttl)
		pipe.Del(ctx, sessionKeyPrefix+oldHash)
		return nil
	})
	return err
}
