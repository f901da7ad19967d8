package entities

import "time"

// User is a Telegram user known to the bot. Name, Phone and Email are filled
// by the lead-capture flow after a completed test.
type User struct {
	ID        int64 // Telegram user ID
	ChatID    int64
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
}

// NewUser creates a user record for the given Telegram identifiers.
func NewUser(id, chatID int64) *User {
	return &User{
		ID:        id,
		ChatID:    chatID,
		CreatedAt: time.Now(),
	}
}

// Lead is the contact information captured before report delivery.
type Lead struct {
	Name  string
	Phone string
	Email string
}
