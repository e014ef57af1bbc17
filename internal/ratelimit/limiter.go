package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Limiter decides whether a request from an identifier is within quota.
type Limiter interface {
	// Allow records one request for identifier and reports the admission decision.
	Allow(ctx context.Context, identifier string) (Result, error)
}

// Result is the admission decision for a single request.
type Result struct {
	Allowed           bool
	Count             int64
	Limit             int64
	WindowSecondsLeft int64
	Key               string
}

// Remaining returns how many more requests fit in the current window.
func (r Result) Remaining() int64 {
	if r.Count >= r.Limit {
		return 0
	}

	return r.Limit - r.Count
}

// RetryAfter returns the time until the current window closes.
func (r Result) RetryAfter() time.Duration {
	return time.Duration(r.WindowSecondsLeft) * time.Second
}

// FixedWindowLimiter implements Limiter with one counter per identifier and
// fixed window. It keeps no state of its own; every decision goes through the
// counter store.
type FixedWindowLimiter struct {
	store CounterStore
	cfg   *Config
	now   func() time.Time
}

// NewFixedWindowLimiter creates a fixed window limiter. A nil now uses time.Now.
func NewFixedWindowLimiter(store CounterStore, cfg *Config, now func() time.Time) (*FixedWindowLimiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if now == nil {
		now = time.Now
	}

	return &FixedWindowLimiter{
		store: store,
		cfg:   cfg,
		now:   now,
	}, nil
}

// Allow increments the identifier's counter for the current window and
// compares it to the configured maximum.
//
// The increment is committed before anything else can fail, so a call that
// returns an error (or whose context is cancelled) may still have consumed
// one unit of quota. Allow never retries.
func (l *FixedWindowLimiter) Allow(ctx context.Context, identifier string) (Result, error) {
	key := l.cfg.WindowKey(identifier, l.cfg.WindowIndex(l.now()))

	counter, err := l.store.IncrementAndGetTTL(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("%w: increment %s: %w", ErrStoreUnavailable, key, err)
	}

	ttl := counter.TTL

	// A missing expiry means this call created the counter. Concurrent callers
	// can both see it and both arm; setting the same TTL twice is harmless.
	if ttl == NoExpiry {
		if err := l.store.SetTTL(ctx, key, l.cfg.Window); err != nil {
			return Result{}, fmt.Errorf("%w: expire %s: %w", ErrStoreUnavailable, key, err)
		}

		ttl = l.cfg.WindowSeconds()
	}

	if ttl < 0 {
		ttl = 0
	}

	return Result{
		Allowed:           counter.Count <= l.cfg.MaxRequests,
		Count:             counter.Count,
		Limit:             l.cfg.MaxRequests,
		WindowSecondsLeft: ttl,
		Key:               key,
	}, nil
}

// Config returns the limiter configuration.
func (l *FixedWindowLimiter) Config() *Config {
	return l.cfg
}

var _ Limiter = (*FixedWindowLimiter)(nil)
