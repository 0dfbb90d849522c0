package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"internwatch/internal/domain"
)

// RedisStore keeps the seen ids in a Redis list, oldest at the head.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(addr, key string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		key:    key,
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Load(ctx context.Context) ([]string, error) {
	ids, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: lrange %s: %v", domain.ErrPersistence, s.key, err)
	}
	return ids, nil
}

// Persist swaps the list in one MULTI/EXEC so readers never see it half written.
func (s *RedisStore) Persist(ctx context.Context, ids []string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(ids) == 0 {
			return nil
		}
		vals := make([]any, len(ids))
		for i, id := range ids {
			vals[i] = id
		}
		pipe.RPush(ctx, s.key, vals...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrPersistence, s.key, err)
	}
	return nil
}
