package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/fixed-window-go/internal/ratelimit"
)

// RedisCounterStore is a Redis implementation of ratelimit.CounterStore.
type RedisCounterStore struct {
	client redis.Cmdable
}

// NewRedisCounterStore creates a new Redis-backed counter store.
func NewRedisCounterStore(client redis.Cmdable) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

// IncrementAndGetTTL runs INCR and TTL inside MULTI/EXEC so no other command
// on the key can land between them.
func (r *RedisCounterStore) IncrementAndGetTTL(ctx context.Context, key string) (ratelimit.Counter, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)

		return nil
	})
	if err != nil {
		return ratelimit.Counter{}, err
	}

	return ratelimit.Counter{
		Count: incr.Val(),
		TTL:   ttlSeconds(ttl.Val()),
	}, nil
}

// SetTTL issues EXPIRE, which is a no-op on a missing key.
func (r *RedisCounterStore) SetTTL(ctx context.Context, key string, ttl time.Duration) error {
	return r.client.Expire(ctx, key, ttl).Err()
}

// ttlSeconds maps a TTL reply to whole seconds. Redis answers -1 for a key
// without expiry and -2 for a missing key; go-redis passes both through as
// negative durations. Neither has an armed expiry.
func ttlSeconds(d time.Duration) int64 {
	if d < 0 {
		return ratelimit.NoExpiry
	}

	return int64(d / time.Second)
}

var _ ratelimit.CounterStore = (*RedisCounterStore)(nil)
