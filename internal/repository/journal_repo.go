package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"vitalia/internal/domain"
)

// JournalRepository guarda el diario mental por usuario y sesión.
type JournalRepository interface {
	Insert(ctx context.Context, entry domain.JournalEntry) error
	ListByUser(ctx context.Context, userID, sessionID string, limit int) ([]domain.JournalEntry, error)
}

// PgJournalRepository implementa JournalRepository usando pgxpool.
type PgJournalRepository struct {
	pool *pgxpool.Pool
}

func NewPgJournalRepository(pool *pgxpool.Pool) *PgJournalRepository {
	return &PgJournalRepository{pool: pool}
}

func (r *PgJournalRepository) Insert(ctx context.Context, entry domain.JournalEntry) error {
	const query = `
		INSERT INTO mental_journal (id, user_id, session_id, message_type, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.SessionID,
		entry.MessageType,
		entry.Content,
		entry.CreatedAt,
	)
	return err
}

func (r *PgJournalRepository) ListByUser(ctx context.Context, userID, sessionID string, limit int) ([]domain.JournalEntry, error) {
	query := `
		SELECT id, user_id, session_id, message_type, content, created_at
		FROM mental_journal
		WHERE user_id = $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	args := []any{userID, limit}
	if sessionID != "" {
		query = `
			SELECT id, user_id, session_id, message_type, content, created_at
			FROM mental_journal
			WHERE user_id = $1 AND session_id = $3
			ORDER BY created_at ASC
			LIMIT $2
		`
		args = append(args, sessionID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.SessionID, &e.MessageType, &e.Content, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
