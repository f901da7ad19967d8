// Package report turns a finalized ClusterResult into the deliverable
// artifacts: radar chart, HTML strategy document and the outbound email.
package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
)

// StrategyGenerator produces the free-form strategy section of the report.
type StrategyGenerator interface {
	GenerateStrategy(ctx context.Context, board entities.ScoreBoard) (string, error)
}

const fallbackStrategy = "## Стратегія\nНе вдалося згенерувати персоналізовану стратегію. " +
	"Зверніться до нас, і ми підготуємо її вручну."

// Service assembles and delivers the report for a finalized session.
type Service struct {
	strategy        StrategyGenerator
	email           *EmailSender
	info            map[string]ArchetypeInfo
	logger          *zap.Logger
	strategyTimeout time.Duration
}

// NewService creates a report service.
func NewService(
	strategy StrategyGenerator,
	email *EmailSender,
	info map[string]ArchetypeInfo,
	strategyTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		strategy:        strategy,
		email:           email,
		info:            info,
		logger:          logger,
		strategyTimeout: strategyTimeout,
	}
}

// Build generates the report document for a finalized result. A failed
// strategy call degrades to a stub section, never to a missing report.
func (s *Service) Build(ctx context.Context, lead entities.Lead, result entities.ClusterResult) (Document, error) {
	strategyCtx, cancel := context.WithTimeout(ctx, s.strategyTimeout)
	defer cancel()

	strategyText, err := s.strategy.GenerateStrategy(strategyCtx, result.Scores)
	if err != nil {
		s.logger.Warn("strategy generation failed", zap.Error(err))
		strategyText = fallbackStrategy
	}

	chart := RadarChartSVG(result.Scores)
	return GenerateDocument(lead, result, strategyText, chart, s.info)
}

// Deliver emails the generated document to the captured lead address.
func (s *Service) Deliver(lead entities.Lead, doc Document) error {
	return s.email.Send(lead.Email, lead.Name, doc)
}
