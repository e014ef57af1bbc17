package container

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

// RedisClient wraps the Redis client so the injector closes it on shutdown.
type RedisClient struct {
	*redis.Client
}

// Shutdown closes the client's connection pool.
func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// RedisPackage provides *RedisClient configured with fail-fast timeouts.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)
		timeout := time.Duration(opts.RedisTimeout) * time.Second

		return &RedisClient{Client: redis.NewClient(&redis.Options{
			Addr:         opts.RedisAddr,
			DialTimeout:  timeout,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		})}, nil
	})
}
