package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"vitalia/internal/domain"
)

// ActivityLogRepository guarda eventos de auditoría ligera.
type ActivityLogRepository interface {
	Insert(ctx context.Context, entry domain.ActivityEntry) error
}

// PgActivityLogRepository implementa ActivityLogRepository usando pgxpool.
type PgActivityLogRepository struct {
	pool *pgxpool.Pool
}

func NewPgActivityLogRepository(pool *pgxpool.Pool) *PgActivityLogRepository {
	return &PgActivityLogRepository{pool: pool}
}

func (r *PgActivityLogRepository) Insert(ctx context.Context, entry domain.ActivityEntry) error {
	const query = `
		INSERT INTO activity_log (id, user_id, action, resource_type, resource_id, metadata, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		entry.Metadata,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	)
	return err
}
