package model

import (
	"time"
)

// Action records a side effect the bot performed while answering, keyed to
// the bot message that triggered it. Append-only.
type Action struct {
	ID         int64     `json:"id"`
	MessageID  int64     `json:"message_id"`
	ActionType string    `json:"action_type"`
	Details    Mapping   `json:"details,omitempty"`
	Success    bool      `json:"success"`
	CreatedAt  time.Time `json:"created_at"`
}

// Feedback is one helpfulness rating for a bot message. Multiple rows per
// message are permitted; repeated feedback is additive history, never an
// update.
type Feedback struct {
	ID        int64     `json:"id"`
	MessageID int64     `json:"message_id"`
	Helpful   bool      `json:"helpful"`
	Text      *string   `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackRequest is the inbound feedback payload.
type FeedbackRequest struct {
	MessageID    int64  `json:"message_id"`
	Helpful      bool   `json:"helpful"`
	FeedbackText string `json:"feedback_text,omitempty"`
}

// FeedbackResponse acknowledges a recorded rating.
type FeedbackResponse struct {
	Success bool `json:"success"`
}
