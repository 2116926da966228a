package domain

import "time"

const (
	JournalMessageUser      = "user"
	JournalMessageAssistant = "assistant"
)

// JournalEntry es un mensaje del diario mental (chat con el asistente).
type JournalEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	SessionID   string    `json:"session_id"`
	MessageType string    `json:"message_type"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}
