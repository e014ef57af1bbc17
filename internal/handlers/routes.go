package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/fixed-window-go/internal/ratelimit"
)

// RegisterRoutes registers the demo routes with per-endpoint rate limit configuration.
func RegisterRoutes(api huma.API, h *DemoHandler) {
	// GET / - Welcome message, never limited
	huma.Register(api, huma.Operation{
		OperationID: "index",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Welcome",
		Tags:        []string{"Demo"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.Index)

	// GET /data - Protected by the fixed window quota
	huma.Register(api, huma.Operation{
		OperationID: "get-data",
		Method:      http.MethodGet,
		Path:        "/data",
		Summary:     "Protected data",
		Description: "Returns data while the caller is within its request quota.",
		Tags:        []string{"Demo"},
		Errors:      []int{http.StatusTooManyRequests, http.StatusServiceUnavailable},
	}, h.Data)

	// GET /ping - Liveness, never limited
	huma.Register(api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
		Summary:     "Liveness check",
		Tags:        []string{"Demo"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.Ping)
}
