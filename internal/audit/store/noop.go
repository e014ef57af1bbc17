package store

import (
	"context"

	"github.com/serroba/fixed-window-go/internal/audit"
	"go.uber.org/zap"
)

// Noop is a no-op implementation of audit.Store that logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op audit store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveRejection(_ context.Context, event *audit.RejectionEvent) error {
	n.logger.Info("quota rejection received",
		zap.String("requestId", event.RequestID),
		zap.String("identifier", event.Identifier),
		zap.String("key", event.Key),
		zap.Int64("count", event.Count),
		zap.Int64("limit", event.Limit),
		zap.String("path", event.Path),
		zap.Time("occurredAt", event.OccurredAt),
	)

	return nil
}

var _ audit.Store = (*Noop)(nil)
