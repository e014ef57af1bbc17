package ratelimit

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// DefaultNamespace prefixes every window key unless configured otherwise.
const DefaultNamespace = "rate_limit:"

var (
	// ErrStoreUnavailable wraps any failure talking to the counter store.
	ErrStoreUnavailable = errors.New("counter store unavailable")

	// ErrInvalidConfig is returned when a limiter is built from a bad Config.
	ErrInvalidConfig = errors.New("invalid rate limit config")
)

// Config holds the fixed window parameters. It is not modified after the
// limiter has been constructed.
type Config struct {
	// Window is the length of each fixed window. It must be a positive whole
	// number of seconds.
	Window time.Duration

	// MaxRequests is the number of requests admitted per identifier per window.
	MaxRequests int64

	// Namespace prefixes window keys so they do not collide with unrelated
	// data in a shared store. Empty means DefaultNamespace.
	Namespace string
}

// Validate reports whether the config can drive a limiter.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if c.Window < time.Second || c.Window%time.Second != 0 {
		return fmt.Errorf("%w: window must be a positive whole number of seconds, got %s", ErrInvalidConfig, c.Window)
	}

	if c.MaxRequests <= 0 {
		return fmt.Errorf("%w: max requests must be positive, got %d", ErrInvalidConfig, c.MaxRequests)
	}

	return nil
}

// WindowSeconds returns the window length in seconds.
func (c *Config) WindowSeconds() int64 {
	return int64(c.Window / time.Second)
}

// WindowIndex returns the index of the fixed window containing now.
func (c *Config) WindowIndex(now time.Time) int64 {
	return floorDiv(now.Unix(), c.WindowSeconds())
}

// WindowKey builds the counter key for identifier in the given window.
// Format: "{namespace}{identifier}:{index}". The index is always the last
// segment, so distinct (identifier, index) pairs never share a key.
func (c *Config) WindowKey(identifier string, index int64) string {
	namespace := c.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return namespace + identifier + ":" + strconv.FormatInt(index, 10)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}
