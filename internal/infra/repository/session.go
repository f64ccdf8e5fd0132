package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/driftpad/driftpad/internal/domain"
)

const sessionKeyPrefix = "session:"

// SessionRepository maps session tokens to participant addresses in redis.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func (r *SessionRepository) Put(ctx context.Context, token string, address string) error {
	return r.rdb.Set(ctx, sessionKeyPrefix+token, address, r.ttl).Err()
}

func (r *SessionRepository) Get(ctx context.Context, token string) (string, error) {
	address, err := r.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.NotFoundError{Resource: "session"}
		}
		return "", err
	}
	return address, nil
}
