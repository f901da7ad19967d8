// Package quiz drives the per-session progression through the randomized
// question order: which question is presented next, the free-text branch
// and completion detection.
package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/NCobrimark/Archetype-UA/internal/catalog"
	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
)

// AnswerSink persists answers. Upsert must overwrite any prior answer for
// the same (session, question) pair, so a resent selection never duplicates.
type AnswerSink interface {
	Upsert(ctx context.Context, a *entities.Answer) error
}

// Milestone percentages at which an encouragement notice is emitted.
var milestones = []int{25, 50, 75}

// Advance is the outcome of feeding one input event into a machine.
type Advance struct {
	// Ignored is set for inputs inconsistent with the current state, e.g. a
	// stale selection for a question that is no longer current. Such events
	// are duplicates or late deliveries, not errors.
	Ignored bool
	// AwaitFreeText is set when the free-text option was chosen and the next
	// plain text input is required before progression.
	AwaitFreeText bool
	// Next is the question to present, nil when the session completed.
	Next *entities.Question
	// Milestone is 25, 50 or 75 when the cursor just crossed that share of
	// the question count, 0 otherwise. Purely cosmetic.
	Milestone int
	// Completed is set exactly once, immediately after the last answer.
	Completed bool
}

// Machine owns a single session's progression state. A machine is not safe
// for concurrent use: the delivery layer serializes each session's events.
type Machine struct {
	session *entities.QuizSession
	catalog *catalog.Catalog
	answers AnswerSink
}

// NewMachine starts progression for a freshly created session.
func NewMachine(session *entities.QuizSession, cat *catalog.Catalog, answers AnswerSink) *Machine {
	return &Machine{
		session: session,
		catalog: cat,
		answers: answers,
	}
}

// Session returns the underlying session.
func (m *Machine) Session() *entities.QuizSession {
	return m.session
}

// Current returns the question at the cursor, or nil once complete.
func (m *Machine) Current() *entities.Question {
	id, ok := m.session.CurrentQuestionID()
	if !ok {
		return nil
	}
	q, err := m.catalog.Question(id)
	if err != nil {
		return nil
	}
	return &q
}

// Select handles the selection of an option for a question. Selections for
// anything but the current question in the Active state are ignored.
func (m *Machine) Select(ctx context.Context, questionID int, optionID string) (Advance, error) {
	if m.session.State != entities.StateActive {
		return Advance{Ignored: true}, nil
	}
	currentID, ok := m.session.CurrentQuestionID()
	if !ok || currentID != questionID {
		return Advance{Ignored: true}, nil
	}

	q, err := m.catalog.Question(currentID)
	if err != nil {
		return Advance{}, fmt.Errorf("resolve current question: %w", err)
	}
	opt, ok := q.Option(optionID)
	if !ok {
		return Advance{Ignored: true}, nil
	}

	if opt.IsFreeText() {
		// No answer is recorded yet; the next text input completes the question.
		m.session.State = entities.StateAwaitingFreeText
		return Advance{AwaitFreeText: true}, nil
	}

	if err := m.answers.Upsert(ctx, entities.NewAnswer(m.session.ID, currentID, optionID)); err != nil {
		return Advance{}, fmt.Errorf("save answer: %w", err)
	}

	return m.advance(), nil
}

// SubmitText completes the free-text branch of the current question.
// Text arriving in any other state is ignored.
func (m *Machine) SubmitText(ctx context.Context, text string) (Advance, error) {
	if m.session.State != entities.StateAwaitingFreeText {
		return Advance{Ignored: true}, nil
	}
	currentID, ok := m.session.CurrentQuestionID()
	if !ok {
		return Advance{Ignored: true}, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Advance{Ignored: true}, nil
	}

	if err := m.answers.Upsert(ctx, entities.NewFreeTextAnswer(m.session.ID, currentID, text)); err != nil {
		return Advance{}, fmt.Errorf("save free-text answer: %w", err)
	}

	return m.advance(), nil
}

func (m *Machine) advance() Advance {
	m.session.Advance()

	if m.session.State == entities.StateComplete {
		return Advance{Completed: true}
	}

	adv := Advance{
		Next:      m.Current(),
		Milestone: crossedMilestone(m.session.Cursor, m.session.Total()),
	}
	return adv
}

// crossedMilestone returns the milestone percentage hit exactly at the given
// count of recorded answers, computed from the permutation length.
func crossedMilestone(answered, total int) int {
	if total == 0 {
		return 0
	}
	for _, pct := range milestones {
		if answered == total*pct/100 {
			return pct
		}
	}
	return 0
}
