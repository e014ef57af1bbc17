package audit

import "context"

// Store persists rejection events.
type Store interface {
	SaveRejection(ctx context.Context, event *RejectionEvent) error
}
