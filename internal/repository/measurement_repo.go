package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"vitalia/internal/domain"
)

// MeasurementRepository guarda el historial corporal. Las filas son
// inmutables: solo se insertan y se listan.
type MeasurementRepository interface {
	Append(ctx context.Context, m domain.Measurement) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Measurement, error)
}

// PgMeasurementRepository implementa MeasurementRepository usando pgxpool.
type PgMeasurementRepository struct {
	pool *pgxpool.Pool
}

func NewPgMeasurementRepository(pool *pgxpool.Pool) *PgMeasurementRepository {
	return &PgMeasurementRepository{pool: pool}
}

func (r *PgMeasurementRepository) Append(ctx context.Context, m domain.Measurement) error {
	const query = `
		INSERT INTO measurements (id, user_id, weight, bmi, tmb, tdee, notes, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		m.ID,
		m.UserID,
		m.Weight,
		m.BMI,
		m.TMB,
		m.TDEE,
		m.Notes,
		m.RecordedAt,
	)
	return err
}

func (r *PgMeasurementRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Measurement, error) {
	const query = `
		SELECT id, user_id, weight, bmi, tmb, tdee, COALESCE(notes, ''), recorded_at
		FROM measurements
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	measurements := []domain.Measurement{}
	for rows.Next() {
		var m domain.Measurement
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Weight,
			&m.BMI,
			&m.TMB,
			&m.TDEE,
			&m.Notes,
			&m.RecordedAt,
		); err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}
	return measurements, rows.Err()
}
