package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/fixed-window-go/internal/ratelimit"
)

type memoryCounter struct {
	count     int64
	expiresAt time.Time // zero until armed
}

// MemoryCounterStore is an in-memory implementation of ratelimit.CounterStore.
// It is meant for development and tests; counters are not shared between processes.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*memoryCounter
	now      func() time.Time

	stopChan chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// NewMemoryCounterStore creates a new in-memory counter store. A nil now uses time.Now.
func NewMemoryCounterStore(now func() time.Time) *MemoryCounterStore {
	if now == nil {
		now = time.Now
	}

	return &MemoryCounterStore{
		counters: make(map[string]*memoryCounter),
		now:      now,
		stopChan: make(chan struct{}),
	}
}

func (s *MemoryCounterStore) IncrementAndGetTTL(_ context.Context, key string) (ratelimit.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	c, ok := s.counters[key]
	if !ok || c.expired(now) {
		c = &memoryCounter{}
		s.counters[key] = c
	}

	c.count++

	return ratelimit.Counter{Count: c.count, TTL: c.ttl(now)}, nil
}

func (s *MemoryCounterStore) SetTTL(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	c, ok := s.counters[key]
	if !ok {
		return nil
	}

	if c.expired(now) {
		delete(s.counters, key)

		return nil
	}

	c.expiresAt = now.Add(ttl)

	return nil
}

// StartCleanup removes expired counters every interval until ctx is done or Stop is called.
func (s *MemoryCounterStore) StartCleanup(ctx context.Context, interval time.Duration) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *MemoryCounterStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	for key, c := range s.counters {
		if c.expired(now) {
			delete(s.counters, key)
		}
	}
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (s *MemoryCounterStore) Stop() {
	s.once.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
}

// Shutdown stops background cleanup.
func (s *MemoryCounterStore) Shutdown() error {
	s.Stop()

	return nil
}

// Size returns the number of counters currently held, expired or not.
func (s *MemoryCounterStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.counters)
}

func (c *memoryCounter) expired(now time.Time) bool {
	return !c.expiresAt.IsZero() && !now.Before(c.expiresAt)
}

// ttl rounds the remaining lifetime up so a live counter never reports 0.
func (c *memoryCounter) ttl(now time.Time) int64 {
	if c.expiresAt.IsZero() {
		return ratelimit.NoExpiry
	}

	left := c.expiresAt.Sub(now)

	return int64((left + time.Second - 1) / time.Second)
}

var _ ratelimit.CounterStore = (*MemoryCounterStore)(nil)
