package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
	"github.com/NCobrimark/Archetype-UA/internal/infra/postgres"
)

var ErrSessionNotFound = errors.New("quiz session not found")

// SessionRepository provides access to quiz session data in the database.
// Only identity and lifecycle are persisted; the permutation and cursor are
// volatile by design and live in the progression state machine.
type SessionRepository struct {
	db postgres.DBTX
}

// NewSessionRepository creates a new SessionRepository with the provided database pool.
func NewSessionRepository(db postgres.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session row and returns its ID.
func (r *SessionRepository) Create(ctx context.Context, session *entities.QuizSession) (int64, error) {
	query := `
		INSERT INTO quiz_sessions (user_id, total_questions, session_status, started_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		session.UserID,
		session.Total(),
		session.State.String(),
		session.StartedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create quiz session: %w", err)
	}

	return id, nil
}

// MarkCompleted flips a session to completed.
func (r *SessionRepository) MarkCompleted(ctx context.Context, sessionID int64) error {
	query := `
		UPDATE quiz_sessions
		SET session_status = 'completed', completed_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("mark session completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}
