// Package finalize reconciles the fixed-duration countdown shown to the user
// with the concurrently running, fallible archetype-synthesis call.
package finalize

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/NCobrimark/Archetype-UA/internal/catalog"
	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
	"github.com/NCobrimark/Archetype-UA/internal/scoring"
)

// Default countdown cadence. The synthesis call gets the whole countdown
// window plus the grace period to finish "for free" from the user's
// perspective; user-facing latency stays bounded regardless of AI slowness.
const (
	DefaultCountdown = 120 * time.Second
	DefaultStep      = 5 * time.Second
	DefaultGrace     = 10 * time.Second
)

// Synthesis is the outcome of the meta-archetype synthesis call.
type Synthesis struct {
	Title       string
	Description string
}

// Synthesizer generates a composite title for a broad primary cluster.
// The call may fail or hang; both are treated as "no title produced".
type Synthesizer interface {
	Synthesize(ctx context.Context, primary []string) (Synthesis, error)
}

// AnswerSource loads the committed answers of a completed session.
type AnswerSource interface {
	ListBySession(ctx context.Context, sessionID int64) ([]entities.Answer, error)
}

// ProgressDisplay is the single user-visible countdown surface. Update
// failures are non-fatal and simply stop further updates.
type ProgressDisplay interface {
	Show(text string) error
	Update(text string) error
	Dismiss()
}

type synthOutcome struct {
	synthesis Synthesis
	err       error
}

// Orchestrator produces a single finalized ClusterResult per completed
// session. The countdown loop and the synthesis call are two independent
// units of work joined exactly once; the countdown never blocks on the call.
type Orchestrator struct {
	catalog *catalog.Catalog
	answers AnswerSource
	synth   Synthesizer
	logger  *zap.Logger

	countdown time.Duration
	step      time.Duration
	grace     time.Duration
}

// New creates an orchestrator with the default countdown cadence.
func New(cat *catalog.Catalog, answers AnswerSource, synth Synthesizer, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		catalog:   cat,
		answers:   answers,
		synth:     synth,
		logger:    logger,
		countdown: DefaultCountdown,
		step:      DefaultStep,
		grace:     DefaultGrace,
	}
}

// WithTiming overrides the countdown cadence. Used by tests; production
// keeps the defaults.
func (o *Orchestrator) WithTiming(countdown, step, grace time.Duration) *Orchestrator {
	o.countdown = countdown
	o.step = step
	o.grace = grace
	return o
}

// Finalize scores the session, runs the countdown and, when the primary
// cluster warrants it, the bounded synthesis call. It never returns before
// the countdown has elapsed and the synthesis (if started) has either
// completed or timed out. Synthesis failures degrade to an absent title.
func (o *Orchestrator) Finalize(ctx context.Context, sessionID int64, display ProgressDisplay) (entities.ClusterResult, error) {
	answers, err := o.answers.ListBySession(ctx, sessionID)
	if err != nil {
		return entities.ClusterResult{}, fmt.Errorf("load answers: %w", err)
	}

	result := scoring.Score(o.catalog, answers)

	var synthCh chan synthOutcome
	if result.NeedsMetaArchetype() {
		// The buffered channel lets the goroutine finish even if the session
		// is torn down before the join; the context bounds the call itself.
		synthCtx, cancel := context.WithTimeout(ctx, o.countdown+o.grace)
		defer cancel()

		names := make([]string, len(result.Primary))
		for i, a := range result.Primary {
			names[i] = a.String()
		}

		synthCh = make(chan synthOutcome, 1)
		go func() {
			s, err := o.synth.Synthesize(synthCtx, names)
			synthCh <- synthOutcome{synthesis: s, err: err}
		}()
	}

	if err := o.runCountdown(ctx, display); err != nil {
		return entities.ClusterResult{}, err
	}

	if synthCh != nil {
		// Grace timeout must fire even if the underlying call never returns.
		select {
		case out := <-synthCh:
			if out.err != nil {
				o.logger.Warn("meta-archetype synthesis failed",
					zap.Int64("session_id", sessionID),
					zap.Error(out.err),
				)
			} else {
				result.MetaTitle = out.synthesis.Title
			}
		case <-time.After(o.grace):
			o.logger.Warn("meta-archetype synthesis missed the grace window",
				zap.Int64("session_id", sessionID),
			)
		case <-ctx.Done():
			display.Dismiss()
			return entities.ClusterResult{}, ctx.Err()
		}
	}

	display.Dismiss()
	return result, nil
}

// runCountdown suspends one step at a time and refreshes the progress
// display after each step. Its cadence is independent of the synthesis task.
func (o *Orchestrator) runCountdown(ctx context.Context, display ProgressDisplay) error {
	steps := int(o.countdown / o.step)
	remaining := o.countdown

	displayAlive := true
	if err := display.Show(countdownText(remaining)); err != nil {
		o.logger.Debug("progress display unavailable", zap.Error(err))
		displayAlive = false
	}

	timer := time.NewTimer(o.step)
	defer timer.Stop()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			display.Dismiss()
			return ctx.Err()
		case <-timer.C:
		}

		remaining -= o.step
		if displayAlive {
			if err := display.Update(countdownText(remaining)); err != nil {
				o.logger.Debug("progress display update failed", zap.Error(err))
				displayAlive = false
			}
		}

		if i < steps-1 {
			timer.Reset(o.step)
		}
	}

	return nil
}

func countdownText(remaining time.Duration) string {
	secs := int(remaining / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("⏳ Аналізую ваші відповіді… Результат за ~%d с", secs)
}
