package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/fixed-window-go/internal/health"
	"github.com/serroba/fixed-window-go/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChecker struct {
	err error
}

func (m *mockChecker) Ping(_ context.Context) error {
	return m.err
}

func TestNewHandler(t *testing.T) {
	checker := &mockChecker{}
	handler := health.NewHandler(checker)

	assert.NotNil(t, handler)
}

func TestHandler_Check(t *testing.T) {
	t.Run("returns ok when store is healthy", func(t *testing.T) {
		handler := health.NewHandler(&mockChecker{})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Equal(t, "healthy", resp.Body.Store)
	})

	t.Run("returns degraded when store is unhealthy", func(t *testing.T) {
		handler := health.NewHandler(&mockChecker{err: errors.New("connection refused")})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Store)
	})
}

func TestCheckerFunc(t *testing.T) {
	errDown := errors.New("down")
	checker := health.CheckerFunc(func(context.Context) error { return errDown })

	handler := health.NewHandler(checker)
	resp, err := handler.Check(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "degraded", resp.Body.Status)
	assert.ErrorIs(t, checker.Ping(context.Background()), errDown)
}

func TestRedisChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})

	t.Cleanup(func() { _ = client.Close() })

	checker := health.NewRedisChecker(client)

	t.Run("Ping returns nil when redis is available", func(t *testing.T) {
		assert.NoError(t, checker.Ping(context.Background()))
	})

	t.Run("Ping returns error when redis is down", func(t *testing.T) {
		mr.Close()

		assert.Error(t, checker.Ping(context.Background()))
	})
}

func TestRegisterRoutes(t *testing.T) {
	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))

	health.RegisterRoutes(api, health.NewHandler(&mockChecker{}))

	t.Run("serves health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Status string `json:"status"`
			Store  string `json:"store"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "healthy", body.Store)
	})

	t.Run("is exempt from rate limiting", func(t *testing.T) {
		op := api.OpenAPI().Paths["/health"].Get
		require.NotNil(t, op)

		cfg, ok := op.Metadata[ratelimit.MetadataKey].(ratelimit.EndpointConfig)
		require.True(t, ok)
		assert.True(t, cfg.Disabled)
	})
}
