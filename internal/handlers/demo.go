package handlers

import (
	"context"

	"go.uber.org/zap"
)

// DemoHandler serves the sample endpoints sitting behind the admission gate.
type DemoHandler struct {
	logger *zap.Logger
}

// NewDemoHandler creates a new demo handler.
func NewDemoHandler(logger *zap.Logger) *DemoHandler {
	return &DemoHandler{logger: logger}
}

// Index greets the caller and points at the protected endpoint.
func (h *DemoHandler) Index(_ context.Context, _ *struct{}) (*MessageResponse, error) {
	resp := &MessageResponse{}
	resp.Body.Message = "Welcome! Try GET /data"

	return resp, nil
}

// Data is the rate limited endpoint.
func (h *DemoHandler) Data(ctx context.Context, _ *struct{}) (*MessageResponse, error) {
	meta := RequestMetaFromContext(ctx)

	h.logger.Debug("protected data served",
		zap.String("requestId", meta.RequestID),
		zap.String("clientIp", meta.ClientIP),
	)

	resp := &MessageResponse{}
	resp.Body.Message = "You accessed protected data!"

	return resp, nil
}

// Ping reports that the process is alive.
func (h *DemoHandler) Ping(_ context.Context, _ *struct{}) (*PingResponse, error) {
	resp := &PingResponse{}
	resp.Body.Status = "ok"

	return resp, nil
}
