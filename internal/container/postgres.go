package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do"
)

var errNoDatabaseURL = errors.New("database url is not configured")

// PostgresPool wraps the pgx pool so the injector closes it on shutdown.
type PostgresPool struct {
	*pgxpool.Pool
}

// Shutdown closes all pool connections.
func (p *PostgresPool) Shutdown() error {
	p.Close()

	return nil
}

// PostgresPackage provides *PostgresPool from Options.DatabaseURL. The pool is
// only opened when something invokes it.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*PostgresPool, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.DatabaseURL == "" {
			return nil, errNoDatabaseURL
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		return &PostgresPool{Pool: pool}, nil
	})
}
