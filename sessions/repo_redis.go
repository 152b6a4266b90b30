package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "authgate:session:"

// RedisRepo stores sessions in Redis so that multiple gateway instances
// can share them. Expiry is enforced with key TTLs, so DeleteExpired is a
// no-op here.
type RedisRepo struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{client: client, now: time.Now}
}

func (r *RedisRepo) Upsert(sessionID string, session Session) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	var ttl time.Duration
	if !session.ExpiresAt.IsZero() {
		ttl = session.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return r.Delete(sessionID)
		}
	}

	if err := r.client.Set(context.Background(), redisKeyPrefix+sessionID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (r *RedisRepo) Get(sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, fmt.Errorf("sessionID is required")
	}

	payload, err := r.client.Get(context.Background(), redisKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("fetch session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

func (r *RedisRepo) Delete(sessionID string) error {
	if err := r.client.Del(context.Background(), redisKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired is satisfied by the per-key TTLs set in Upsert.
func (r *RedisRepo) DeleteExpired(time.Time) error {
	return nil
}
