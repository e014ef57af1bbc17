package ratelimit

import (
	"context"
	"time"
)

// NoExpiry is the TTL reported for a counter that has no expiry armed yet.
// Seeing it right after an increment means the increment created the counter.
const NoExpiry int64 = -1

// Counter is the state of a window counter observed by a single increment.
type Counter struct {
	// Count is the value after the increment.
	Count int64
	// TTL is the remaining lifetime in whole seconds, or NoExpiry.
	TTL int64
}

// CounterStore is the shared store holding window counters.
//
// Implementations must be safe for concurrent use and must guarantee that, for
// a given key, increments are totally ordered with no lost or duplicated updates.
type CounterStore interface {
	// IncrementAndGetTTL increments the counter at key, creating it at 1 when
	// absent, and reads its remaining TTL in the same atomic unit. No other
	// operation on key may be observed between the increment and the read.
	IncrementAndGetTTL(ctx context.Context, key string) (Counter, error)

	// SetTTL arms the expiry of an existing key. Repeating it is harmless and
	// it does nothing when the key has already expired.
	SetTTL(ctx context.Context, key string, ttl time.Duration) error
}
