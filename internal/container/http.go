package container

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jaevor/go-nanoid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"
	"github.com/serroba/fixed-window-go/internal/audit"
	"github.com/serroba/fixed-window-go/internal/handlers"
	"github.com/serroba/fixed-window-go/internal/health"
	"github.com/serroba/fixed-window-go/internal/messaging"
	"github.com/serroba/fixed-window-go/internal/metrics"
	"github.com/serroba/fixed-window-go/internal/middleware"
	"github.com/serroba/fixed-window-go/internal/ratelimit"
	"go.uber.org/zap"
)

const requestIDLength = 21

// HTTPPackage provides the router and the huma API with the admission gate
// and all routes registered. Invoking huma.API registers the routes.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Handle("/metrics", promhttp.HandlerFor(
			do.MustInvoke[*prometheus.Registry](i),
			promhttp.HandlerOpts{},
		))

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		policy, err := middleware.ParseFailurePolicy(opts.FailPolicy)
		if err != nil {
			return nil, err
		}

		newID, err := nanoid.Standard(requestIDLength)
		if err != nil {
			return nil, fmt.Errorf("request id generator: %w", err)
		}

		router := do.MustInvoke[*chi.Mux](i)
		api := humachi.New(router, huma.DefaultConfig("Fixed Window Quota", "1.0.0"))

		api.UseMiddleware(
			middleware.RequestMeta(api, newID, opts.TrustProxy),
			middleware.RateLimiter(api, middleware.GateConfig{
				Limiter: do.MustInvoke[ratelimit.Limiter](i),
				Policy:  policy,
				Publish: do.MustInvoke[messaging.Publish[audit.RejectionEvent]](i),
				Metrics: do.MustInvoke[*metrics.Metrics](i),
				Logger:  logger,
			}),
		)

		handlers.RegisterRoutes(api, handlers.NewDemoHandler(logger))
		health.RegisterRoutes(api, health.NewHandler(do.MustInvoke[health.Checker](i)))

		return api, nil
	})
}
