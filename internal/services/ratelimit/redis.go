package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sliding-window counters in a Redis sorted set scored
// by event time, so multiple API instances share one set of limits.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Count(ctx context.Context, key string, window time.Duration) (int, error) {
	now := time.Now()
	cutoff := now.Add(-window)
	member := fmt.Sprintf("%d-%s", now.UnixNano(), uuid.New().String())

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", cutoff.UnixNano()))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("rate limit counter unavailable for %s: %v", key, err)
		return 0, err
	}
	return int(card.Val()), nil
}
