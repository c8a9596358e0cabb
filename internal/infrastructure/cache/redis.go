package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenTTL bounds how long a refresh token stays exchangeable. Tokens
// survive process restarts as long as redis does.
const RefreshTokenTTL = 7 * 24 * time.Hour

const refreshKeyPrefix = "refresh_token:"

type RedisRefreshStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRefreshStore(client *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{client: client, ttl: RefreshTokenTTL}
}

func (s *RedisRefreshStore) Save(ctx context.Context, token, userID string) error {
	return s.client.Set(ctx, refreshKeyPrefix+token, userID, s.ttl).Err()
}

// Take consumes the token with GETDEL, so the read and the invalidation are a
// single redis command and concurrent callers cannot both win.
func (s *RedisRefreshStore) Take(ctx context.Context, token string) (string, error) {
	val, err := s.client.GetDel(ctx, refreshKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", err
	}
	return val, nil
}

func (s *RedisRefreshStore) Delete(ctx context.Context, token string) error {
	n, err := s.client.Del(ctx, refreshKeyPrefix+token).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTokenNotFound
	}
	return nil
}
