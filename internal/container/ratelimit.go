package container

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/do"
	"github.com/serroba/fixed-window-go/internal/health"
	"github.com/serroba/fixed-window-go/internal/ratelimit"
	"github.com/serroba/fixed-window-go/internal/store"
)

// RateLimitPackage provides the counter store, the limiter config, the
// limiter and a matching health checker.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*ratelimit.Config, error) {
		opts := do.MustInvoke[*Options](i)

		cfg := &ratelimit.Config{
			Window:      time.Duration(opts.Window) * time.Second,
			MaxRequests: int64(opts.MaxRequests),
			Namespace:   opts.Namespace,
		}

		if err := cfg.Validate(); err != nil {
			return nil, err
		}

		return cfg, nil
	})

	do.Provide(i, func(i *do.Injector) (ratelimit.CounterStore, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Store {
		case StoreRedis:
			return store.NewRedisCounterStore(do.MustInvoke[*RedisClient](i).Client), nil
		case StoreMemory:
			cfg := do.MustInvoke[*ratelimit.Config](i)
			mem := store.NewMemoryCounterStore(nil)
			mem.StartCleanup(context.Background(), cfg.Window)

			return mem, nil
		default:
			return nil, fmt.Errorf("unknown counter store %q", opts.Store)
		}
	})

	do.Provide(i, func(i *do.Injector) (ratelimit.Limiter, error) {
		return ratelimit.NewFixedWindowLimiter(
			do.MustInvoke[ratelimit.CounterStore](i),
			do.MustInvoke[*ratelimit.Config](i),
			nil,
		)
	})

	do.Provide(i, func(i *do.Injector) (health.Checker, error) {
		if do.MustInvoke[*Options](i).Store == StoreMemory {
			return health.CheckerFunc(func(context.Context) error { return nil }), nil
		}

		return health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client), nil
	})
}
