package repository

import (
	"context"
	"fmt"

	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
	"github.com/NCobrimark/Archetype-UA/internal/infra/postgres"
)

// AnswerRepository provides access to committed answers in the database.
type AnswerRepository struct {
	db postgres.DBTX
}

// NewAnswerRepository creates a new AnswerRepository with the provided database pool.
func NewAnswerRepository(db postgres.DBTX) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Upsert saves an answer, overwriting any prior answer for the same
// (session, question) pair. A resent selection therefore never duplicates.
func (r *AnswerRepository) Upsert(ctx context.Context, a *entities.Answer) error {
	query := `
		INSERT INTO quiz_answers (session_id, question_id, option_id, free_text, answered_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		ON CONFLICT (session_id, question_id) DO UPDATE SET
			option_id = EXCLUDED.option_id,
			free_text = EXCLUDED.free_text,
			answered_at = EXCLUDED.answered_at
	`

	_, err := r.db.Exec(ctx, query, a.SessionID, a.QuestionID, a.OptionID, a.FreeText, a.AnsweredAt)
	if err != nil {
		return fmt.Errorf("upsert answer: %w", err)
	}

	return nil
}

// ListBySession returns all answers of a session ordered by arrival.
func (r *AnswerRepository) ListBySession(ctx context.Context, sessionID int64) ([]entities.Answer, error) {
	query := `
		SELECT id, session_id, question_id, option_id, COALESCE(free_text, ''), answered_at
		FROM quiz_answers
		WHERE session_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var answers []entities.Answer
	for rows.Next() {
		var a entities.Answer
		if err := rows.Scan(&a.ID, &a.SessionID, &a.QuestionID, &a.OptionID, &a.FreeText, &a.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}

	return answers, nil
}
