package model

import (
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one entry in a conversation's append-only ledger. Messages are
// immutable once written; there is no update path.
type Message struct {
	// Identity
	ID             int64 `json:"id"`
	ConversationID int64 `json:"conversation_id"`

	// Content
	Sender Sender `json:"sender"`
	Text   string `json:"text"`

	// Detection metadata (nullable for user and fallback messages)
	Intent     *string  `json:"intent,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Entities   Mapping  `json:"entities,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TurnRequest is the inbound chat turn payload. A missing conversation_id
// opens a new conversation for the caller.
type TurnRequest struct {
	Message        string `json:"message"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
}

// TurnResponse is returned after a turn completes.
type TurnResponse struct {
	ConversationID int64   `json:"conversation_id"`
	Message        string  `json:"message"`
	MessageID      int64   `json:"message_id"`
	Intent         *string `json:"intent,omitempty"`
}

// HistoryMessage is the widget-facing shape of a ledger entry.
type HistoryMessage struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// HistoryResponse is returned when a widget resumes a session.
type HistoryResponse struct {
	ConversationID int64            `json:"conversation_id"`
	Messages       []HistoryMessage `json:"messages"`
}
