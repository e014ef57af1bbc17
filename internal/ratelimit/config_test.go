package ratelimit_test

import (
	"testing"
	"time"

	"github.com/serroba/fixed-window-go/internal/ratelimit"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *ratelimit.Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg:  &ratelimit.Config{Window: 10 * time.Second, MaxRequests: 5},
		},
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: true,
		},
		{
			name:    "zero window",
			cfg:     &ratelimit.Config{Window: 0, MaxRequests: 5},
			wantErr: true,
		},
		{
			name:    "sub-second window",
			cfg:     &ratelimit.Config{Window: 500 * time.Millisecond, MaxRequests: 5},
			wantErr: true,
		},
		{
			name:    "fractional window",
			cfg:     &ratelimit.Config{Window: 1500 * time.Millisecond, MaxRequests: 5},
			wantErr: true,
		},
		{
			name:    "zero max requests",
			cfg:     &ratelimit.Config{Window: time.Minute, MaxRequests: 0},
			wantErr: true,
		},
		{
			name:    "negative max requests",
			cfg:     &ratelimit.Config{Window: time.Minute, MaxRequests: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()

			if tt.wantErr {
				assert.ErrorIs(t, err, ratelimit.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_WindowIndex(t *testing.T) {
	t.Parallel()

	cfg := &ratelimit.Config{Window: 10 * time.Second, MaxRequests: 1}

	assert.Equal(t, int64(170000000), cfg.WindowIndex(time.Unix(1_700_000_000, 0)))
	assert.Equal(t, int64(170000000), cfg.WindowIndex(time.Unix(1_700_000_009, 999_000_000)))
	assert.Equal(t, int64(170000001), cfg.WindowIndex(time.Unix(1_700_000_010, 0)))
	assert.Equal(t, int64(-1), cfg.WindowIndex(time.Unix(-1, 0)))
}

func TestConfig_WindowKey(t *testing.T) {
	t.Parallel()

	t.Run("uses default namespace", func(t *testing.T) {
		t.Parallel()

		cfg := &ratelimit.Config{Window: time.Minute, MaxRequests: 1}

		assert.Equal(t, "rate_limit:10.0.0.1:42", cfg.WindowKey("10.0.0.1", 42))
	})

	t.Run("uses configured namespace", func(t *testing.T) {
		t.Parallel()

		cfg := &ratelimit.Config{Window: time.Minute, MaxRequests: 1, Namespace: "api:quota:"}

		assert.Equal(t, "api:quota:user-7:42", cfg.WindowKey("user-7", 42))
	})

	t.Run("different windows never share a key", func(t *testing.T) {
		t.Parallel()

		cfg := &ratelimit.Config{Window: time.Minute, MaxRequests: 1}

		assert.NotEqual(t, cfg.WindowKey("a", 1), cfg.WindowKey("a", 2))
		assert.NotEqual(t, cfg.WindowKey("a:1", 2), cfg.WindowKey("a", 12))
	})
}
