package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"journal-backend/internal/domains/audit/model"
)

// AuditRepository is append-only: events are inserted and read, never
// updated or deleted.
type AuditRepository interface {
	Append(ctx context.Context, event *model.Event) error
	ListRecent(ctx context.Context, limit int) ([]model.Event, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new audit repository instance
func NewPostgresRepository(pool *pgxpool.Pool) AuditRepository {
	return &postgresRepository{pool: pool}
}

// Append inserts a new audit event
func (r *postgresRepository) Append(ctx context.Context, event *model.Event) error {
	query := `
    INSERT INTO audit_events (actor, action, entity_type, entity_id, detail, created_at)
    VALUES ($1, $2, $3, $4, $5, NOW())
    RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		event.Actor, event.Action, event.EntityType, event.EntityID, event.Detail,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

// ListRecent returns the newest events first
func (r *postgresRepository) ListRecent(ctx context.Context, limit int) ([]model.Event, error) {
	query := `
    SELECT id, actor, action, entity_type, entity_id, detail, created_at
    FROM audit_events
    ORDER BY created_at DESC
    LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.EntityType, &e.EntityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
