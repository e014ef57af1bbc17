package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/serroba/fixed-window-go/internal/audit"
)

// DB is the subset of pgxpool.Pool used by Postgres.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is a PostgreSQL implementation of audit.Store.
type Postgres struct {
	db DB
}

// NewPostgres creates a new PostgreSQL-backed audit store.
func NewPostgres(db DB) *Postgres {
	return &Postgres{db: db}
}

// SaveRejection inserts the event. Redelivered events are ignored by request ID.
func (p *Postgres) SaveRejection(ctx context.Context, event *audit.RejectionEvent) error {
	query := `
		INSERT INTO quota_rejections
			(request_id, identifier, window_key, count, max_requests, retry_after_seconds,
			 method, path, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (request_id) DO NOTHING
	`

	_, err := p.db.Exec(ctx, query,
		event.RequestID,
		event.Identifier,
		event.Key,
		event.Count,
		event.Limit,
		event.RetryAfterSeconds,
		event.Method,
		event.Path,
		nullableString(event.UserAgent),
		event.OccurredAt,
	)

	return err
}

// CountByIdentifier returns how many rejections were recorded for identifier.
func (p *Postgres) CountByIdentifier(ctx context.Context, identifier string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM quota_rejections
		WHERE identifier = $1
	`

	var count int64

	if err := p.db.QueryRow(ctx, query, identifier).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

var _ audit.Store = (*Postgres)(nil)
