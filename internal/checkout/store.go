package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	redispkg "github.com/shoplux/shoplux-backend/pkg/redis"
)

type redisCommands interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutSessionKey(userID string) string
}

// SessionStore persists checkout sessions in Redis with a sliding TTL.
type SessionStore struct {
	redis redisCommands
	ttl   time.Duration
}

func NewSessionStore(redis redisCommands, ttl time.Duration) (*SessionStore, error) {
	if redis == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionStore{redis: redis, ttl: ttl}, nil
}

// Load returns the stored session, or nil when none exists or it expired.
func (s *SessionStore) Load(ctx context.Context, userID uuid.UUID) (*Session, error) {
	raw, err := s.redis.Get(ctx, s.redis.CheckoutSessionKey(userID.String()))
	if err != nil {
		if errors.Is(err, redispkg.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load checkout session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		// A corrupt session is unrecoverable; treat it as absent.
		return nil, nil
	}
	return &session, nil
}

// Save writes the session back, refreshing the TTL.
func (s *SessionStore) Save(ctx context.Context, userID uuid.UUID, session *Session) error {
	session.UpdatedAt = time.Now()
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode checkout session: %w", err)
	}
	return s.redis.Set(ctx, s.redis.CheckoutSessionKey(userID.String()), payload, s.ttl)
}

// Delete removes the session once checkout completes.
func (s *SessionStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.redis.Del(ctx, s.redis.CheckoutSessionKey(userID.String()))
}
