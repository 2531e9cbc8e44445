// Package model defines data structures for the tenant chatbot service.
package model

import (
	"time"
)

// Conversation represents one bounded chatbot session for a tenant. A
// conversation with no EndedAt is open; closing it sets EndedAt and an
// optional summary. Closed conversations must not receive new messages
// (caller contract, not enforced by storage).
type Conversation struct {
	ID        int64      `json:"id"`
	TenantID  string     `json:"tenant_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Summary   *string    `json:"summary,omitempty"`
}

// Open reports whether the conversation can still accept turns.
func (c *Conversation) Open() bool {
	return c.EndedAt == nil
}

// EndConversationRequest is the request to close a conversation.
type EndConversationRequest struct {
	Summary string `json:"summary,omitempty"`
}

// ContextState is the per-conversation structured memory carried across
// turns. At most one record exists per conversation; writes are upserts.
type ContextState struct {
	ConversationID int64     `json:"conversation_id"`
	Data           Mapping   `json:"data"`
	UpdatedAt      time.Time `json:"updated_at"`
}
