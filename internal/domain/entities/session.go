package entities

import (
	"math/rand"
	"time"
)

// SessionState is the progression state of a quiz session.
type SessionState int

const (
	// StateActive means the session awaits a selection for the current question.
	StateActive SessionState = iota
	// StateAwaitingFreeText means the free-text option was chosen and the
	// next plain text input completes the current question.
	StateAwaitingFreeText
	// StateComplete means the cursor has passed the last question.
	StateComplete
)

func (s SessionState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateAwaitingFreeText:
		return "awaiting_free_text"
	case StateComplete:
		return "completed"
	}
	return "unknown"
}

// QuizSession is one user's run through the full question set. The question
// order is a random permutation generated once at session start and fixed for
// the session's lifetime. Progress is volatile: a session is not resumed
// across process restarts, only committed answers survive.
type QuizSession struct {
	ID          int64 // database session ID
	UserID      int64
	Order       []int // permutation of all question IDs
	Cursor      int   // index into Order of the current question
	State       SessionState
	StartedAt   time.Time
	CompletedAt *time.Time
}

// NewQuizSession creates an active session with a fresh uniformly random
// permutation of the given question IDs.
func NewQuizSession(userID int64, questionIDs []int) *QuizSession {
	order := make([]int, len(questionIDs))
	copy(order, questionIDs)
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	return &QuizSession{
		UserID:    userID,
		Order:     order,
		State:     StateActive,
		StartedAt: time.Now(),
	}
}

// CurrentQuestionID returns the question ID at the cursor.
// The second result is false once the session is complete.
func (s *QuizSession) CurrentQuestionID() (int, bool) {
	if s.Cursor >= len(s.Order) {
		return 0, false
	}
	return s.Order[s.Cursor], true
}

// Advance moves the cursor past the current question and flips the session
// to StateComplete when the last question has been answered.
func (s *QuizSession) Advance() {
	s.Cursor++
	if s.Cursor >= len(s.Order) {
		s.Complete()
		return
	}
	s.State = StateActive
}

// Complete marks the session as completed.
func (s *QuizSession) Complete() {
	s.State = StateComplete
	now := time.Now()
	s.CompletedAt = &now
}

// Total returns the number of questions in the session.
func (s *QuizSession) Total() int {
	return len(s.Order)
}
