package entities

import "time"

// Answer is a user's recorded choice for one question. At most one answer
// exists per (session, question); a later answer supersedes the earlier one.
// FreeText is set exactly when OptionID is the free-text marker.
type Answer struct {
	ID         int64
	SessionID  int64
	QuestionID int
	OptionID   string
	FreeText   string
	AnsweredAt time.Time
}

// NewAnswer creates an answer for a regular option.
func NewAnswer(sessionID int64, questionID int, optionID string) *Answer {
	return &Answer{
		SessionID:  sessionID,
		QuestionID: questionID,
		OptionID:   optionID,
		AnsweredAt: time.Now(),
	}
}

// NewFreeTextAnswer creates an answer for the free-text branch.
func NewFreeTextAnswer(sessionID int64, questionID int, text string) *Answer {
	a := NewAnswer(sessionID, questionID, FreeTextOptionID)
	a.FreeText = text
	return a
}
