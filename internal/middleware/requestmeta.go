package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/fixed-window-go/internal/handlers"
)

// HeaderRequestID carries the request identifier in both directions.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLength bounds client supplied request IDs.
const maxRequestIDLength = 64

// RequestMeta is a middleware that adds a request ID, client IP, user-agent
// and referrer to the request context. An incoming X-Request-ID is reused,
// otherwise newID generates one.
func RequestMeta(_ huma.API, newID func() string, trustProxy bool) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		requestID := ctx.Header(HeaderRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = newID()
		}

		meta := handlers.RequestMeta{
			RequestID: requestID,
			ClientIP:  ClientIP(ctx, trustProxy),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
		}

		ctx.SetHeader(HeaderRequestID, requestID)

		newCtx := handlers.ContextWithRequestMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}
