package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/fixed-window-go/internal/audit"
	"github.com/serroba/fixed-window-go/internal/handlers"
	"github.com/serroba/fixed-window-go/internal/messaging"
	"github.com/serroba/fixed-window-go/internal/metrics"
	"github.com/serroba/fixed-window-go/internal/ratelimit"
	"go.uber.org/zap"
)

// Response headers describing the caller's quota.
const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderUsed       = "X-RateLimit-Used"
	HeaderReset      = "X-RateLimit-Reset"
	HeaderRetryAfter = "Retry-After"
)

// FailurePolicy decides what the gate does when the counter store cannot be reached.
type FailurePolicy string

const (
	// FailClosed rejects the request with 503 Service Unavailable.
	FailClosed FailurePolicy = "closed"
	// FailOpen lets the request through without counting it.
	FailOpen FailurePolicy = "open"
)

// ParseFailurePolicy parses "open" or "closed".
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(s); p {
	case FailClosed, FailOpen:
		return p, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q: must be %q or %q", s, FailOpen, FailClosed)
	}
}

// QuotaExceeded is the body returned with 429 Too Many Requests.
type QuotaExceeded struct {
	Error             string `json:"error"`
	Limit             int64  `json:"limit"`
	Used              int64  `json:"used"`
	RetryAfterSeconds int64  `json:"retry_after_seconds"`
}

// GateConfig wires the admission gate.
type GateConfig struct {
	Limiter ratelimit.Limiter
	Policy  FailurePolicy

	// Identify returns the identifier a request is limited by. Defaults to the
	// client IP recorded by RequestMeta, falling back to the remote address.
	Identify func(ctx huma.Context) string

	// Publish receives an event for every rejected request. Defaults to a no-op.
	Publish messaging.Publish[audit.RejectionEvent]

	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

type gate struct {
	api     huma.API
	limiter ratelimit.Limiter
	policy  FailurePolicy
	ident   func(ctx huma.Context) string
	publish messaging.Publish[audit.RejectionEvent]
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// RateLimiter returns a Huma middleware that admits or rejects each request
// with a single limiter call.
//
// Endpoints can opt out through operation metadata under ratelimit.MetadataKey
// (ratelimit.EndpointConfig{Disabled: true}).
func RateLimiter(api huma.API, cfg GateConfig) func(ctx huma.Context, next func(huma.Context)) {
	g := &gate{
		api:     api,
		limiter: cfg.Limiter,
		policy:  cfg.Policy,
		ident:   cfg.Identify,
		publish: cfg.Publish,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}

	if g.policy == "" {
		g.policy = FailClosed
	}

	if g.ident == nil {
		g.ident = defaultIdentifier
	}

	if g.publish == nil {
		g.publish = messaging.NopPublish[audit.RejectionEvent]()
	}

	if g.metrics == nil {
		g.metrics = metrics.NewNop()
	}

	if g.logger == nil {
		g.logger = zap.NewNop()
	}

	return g.handle
}

func defaultIdentifier(ctx huma.Context) string {
	if ip := handlers.RequestMetaFromContext(ctx.Context()).ClientIP; ip != "" {
		return ip
	}

	return ClientIP(ctx, false)
}

func (g *gate) handle(ctx huma.Context, next func(huma.Context)) {
	if cfg := ratelimit.GetEndpointConfig(ctx); cfg != nil && cfg.Disabled {
		next(ctx)

		return
	}

	identifier := g.ident(ctx)

	start := time.Now()
	res, err := g.limiter.Allow(ctx.Context(), identifier)
	g.metrics.LimiterDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		g.handleFailure(ctx, identifier, err, next)

		return
	}

	setQuotaHeaders(ctx, res)

	if !res.Allowed {
		g.reject(ctx, identifier, res)

		return
	}

	g.metrics.Decisions.WithLabelValues(metrics.DecisionAllowed).Inc()

	next(ctx)
}

// handleFailure applies the failure policy. Quota rejections never reach here.
func (g *gate) handleFailure(ctx huma.Context, identifier string, err error, next func(huma.Context)) {
	path := getOperationPath(ctx)

	if g.policy == FailOpen {
		g.metrics.Decisions.WithLabelValues(metrics.DecisionFailedOpen).Inc()
		g.logger.Warn("rate limit check failed, admitting request",
			zap.String("path", path),
			zap.String("identifier", identifier),
			zap.Error(err),
		)

		next(ctx)

		return
	}

	g.metrics.Decisions.WithLabelValues(metrics.DecisionFailedClose).Inc()
	g.logger.Error("rate limit check failed, rejecting request",
		zap.String("path", path),
		zap.String("identifier", identifier),
		zap.Error(err),
	)

	_ = huma.WriteErr(g.api, ctx, http.StatusServiceUnavailable, "rate limiter unavailable")
}

func (g *gate) reject(ctx huma.Context, identifier string, res ratelimit.Result) {
	g.metrics.Decisions.WithLabelValues(metrics.DecisionDenied).Inc()

	path := getOperationPath(ctx)
	meta := handlers.RequestMetaFromContext(ctx.Context())

	g.logger.Warn("rate limit exceeded",
		zap.String("path", path),
		zap.String("method", ctx.Method()),
		zap.String("identifier", identifier),
		zap.Int64("count", res.Count),
		zap.Int64("limit", res.Limit),
		zap.Int64("retry_after_seconds", res.WindowSecondsLeft),
	)

	requestID := meta.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	event := &audit.RejectionEvent{
		RequestID:         requestID,
		Identifier:        identifier,
		Key:               res.Key,
		Count:             res.Count,
		Limit:             res.Limit,
		RetryAfterSeconds: res.WindowSecondsLeft,
		Method:            ctx.Method(),
		Path:              path,
		UserAgent:         meta.UserAgent,
		OccurredAt:        time.Now().UTC(),
	}

	if err := g.publish(ctx.Context(), event); err != nil {
		g.metrics.AuditPublishes.WithLabelValues("error").Inc()
		g.logger.Error("failed to publish rejection event",
			zap.String("requestId", requestID),
			zap.Error(err),
		)
	} else {
		g.metrics.AuditPublishes.WithLabelValues("ok").Inc()
	}

	ctx.SetHeader(HeaderRetryAfter, strconv.FormatInt(res.WindowSecondsLeft, 10))

	_ = writeQuotaExceeded(g.api, ctx, res)
}

// writeQuotaExceeded writes the 429 body in the content type negotiated by the API.
func writeQuotaExceeded(api huma.API, ctx huma.Context, res ratelimit.Result) error {
	ct, err := api.Negotiate(ctx.Header("Accept"))
	if err != nil {
		ct = "application/json"
	}

	ctx.SetHeader("Content-Type", ct)
	ctx.SetStatus(http.StatusTooManyRequests)

	return api.Marshal(ctx.BodyWriter(), ct, &QuotaExceeded{
		Error:             http.StatusText(http.StatusTooManyRequests),
		Limit:             res.Limit,
		Used:              res.Count,
		RetryAfterSeconds: res.WindowSecondsLeft,
	})
}

func setQuotaHeaders(ctx huma.Context, res ratelimit.Result) {
	ctx.SetHeader(HeaderLimit, strconv.FormatInt(res.Limit, 10))
	ctx.SetHeader(HeaderRemaining, strconv.FormatInt(res.Remaining(), 10))
	ctx.SetHeader(HeaderUsed, strconv.FormatInt(res.Count, 10))
	ctx.SetHeader(HeaderReset, strconv.FormatInt(res.WindowSecondsLeft, 10))
}

// getOperationPath extracts the path from the operation, if available.
func getOperationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}
