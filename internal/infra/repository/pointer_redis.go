package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/driftpad/driftpad/internal/domain"
)

// RedisPointerStore persists the welcome-document pointer as a single redis
// key. Initialize is a conditional write: the first caller wins and every
// later caller gets the winner's id back, so the absent-to-present transition
// happens at most once.
type RedisPointerStore struct {
	rdb *redis.Client
	key string
}

func NewRedisPointerStore(rdb *redis.Client, key string) *RedisPointerStore {
	return &RedisPointerStore{rdb: rdb, key: key}
}

func (s *RedisPointerStore) Read(ctx context.Context) (string, error) {
	value, err := s.rdb.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.NotFoundError{Resource: "welcome document pointer"}
		}
		return "", err
	}
	return value, nil
}

func (s *RedisPointerStore) Initialize(ctx context.Context, id string) (string, error) {
	set, err := s.rdb.SetNX(ctx, s.key, id, 0).Result()
	if err != nil {
		return "", err
	}
	if set {
		return id, nil
	}

	winner, err := s.rdb.Get(ctx, s.key).Result()
	if err != nil {
		return "", errors.Wrap(err, "pointer set but winner unreadable")
	}
	return winner, nil
}
