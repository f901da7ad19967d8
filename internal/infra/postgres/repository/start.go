package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
	"github.com/NCobrimark/Archetype-UA/internal/infra/postgres"
)

// RunStarter persists the start of a test run: the user upsert and the
// session insert commit together or not at all.
type RunStarter struct {
	tx *postgres.Transactor
}

// NewRunStarter creates a RunStarter on the given transactor.
func NewRunStarter(tx *postgres.Transactor) *RunStarter {
	return &RunStarter{tx: tx}
}

// StartRun saves the user and creates the session in one transaction,
// returning the new session ID.
func (s *RunStarter) StartRun(ctx context.Context, user *entities.User, session *entities.QuizSession) (int64, error) {
	var id int64

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := NewUserRepository(tx).Save(ctx, user); err != nil {
			return err
		}

		sessionID, err := NewSessionRepository(tx).Create(ctx, session)
		if err != nil {
			return err
		}
		id = sessionID
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("start run: %w", err)
	}

	return id, nil
}
