package model

import (
	"time"
)

// EventType represents the type of chat event published to the event bus.
type EventType string

const (
	EventTypeTurnCompleted     EventType = "turn_completed"
	EventTypeConversationEnded EventType = "conversation_ended"
	EventTypeFeedbackReceived  EventType = "feedback_received"
	EventTypeActionRecorded    EventType = "action_recorded"
)

// ChatEvent is the envelope for events emitted after a turn, a close, an
// action or a feedback write. Events are best-effort notifications for
// downstream consumers (reporting, alerting); they are never load-bearing
// for the turn itself.
type ChatEvent struct {
	ID             string    `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	TenantID       string    `json:"tenant_id"`
	Type           EventType `json:"type"`
	MessageID      int64     `json:"message_id,omitempty"`
	Intent         string    `json:"intent,omitempty"`
	Metadata       Mapping   `json:"metadata,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
