package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vitalia/internal/domain"
)

// ProfileRepository define el contrato de persistencia para el estado de
// gamificación, guardado en la tabla profiles del proveedor de auth.
type ProfileRepository interface {
	GetGamification(ctx context.Context, userID string) (domain.GamificationProfile, error)
	UpdateGamification(ctx context.Context, profile domain.GamificationProfile) error
	TouchLastActive(ctx context.Context, userID string, at time.Time) error
}

// PgProfileRepository implementa ProfileRepository usando pgxpool.
type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) GetGamification(ctx context.Context, userID string) (domain.GamificationProfile, error) {
	const query = `
		SELECT id, COALESCE(full_name, ''), xp, level, current_streak, last_active_at
		FROM profiles
		WHERE id = $1
	`
	var (
		p          domain.GamificationProfile
		lastActive *time.Time
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.FullName,
		&p.XP,
		&p.Level,
		&p.CurrentStreak,
		&lastActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GamificationProfile{}, err
	}
	if lastActive != nil {
		p.LastActiveAt = *lastActive
	}
	return p, err
}

func (r *PgProfileRepository) UpdateGamification(ctx context.Context, profile domain.GamificationProfile) error {
	const query = `
		UPDATE profiles
		SET xp = $2, level = $3, current_streak = $4, last_active_at = $5
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		profile.UserID,
		profile.XP,
		profile.Level,
		profile.CurrentStreak,
		profile.LastActiveAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgProfileRepository) TouchLastActive(ctx context.Context, userID string, at time.Time) error {
	const query = `
		UPDATE profiles
		SET last_active_at = $2
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, userID, at)
	return err
}
