// Package audit records requests rejected by the admission gate.
package audit

import "time"

// TopicQuotaRejected is the topic rejection events are published to.
const TopicQuotaRejected = "quota.rejected"

// RejectionEvent is emitted when a request is denied for exceeding its quota.
type RejectionEvent struct {
	RequestID         string    `json:"requestId"`
	Identifier        string    `json:"identifier"`
	Key               string    `json:"key"`
	Count             int64     `json:"count"`
	Limit             int64     `json:"limit"`
	RetryAfterSeconds int64     `json:"retryAfterSeconds"`
	Method            string    `json:"method"`
	Path              string    `json:"path"`
	UserAgent         string    `json:"userAgent,omitempty"`
	OccurredAt        time.Time `json:"occurredAt"`
}
