package store

import (
	"context"
	"time"

	"github.com/propstack/tenant-chatbot/internal/model"
)

// FindConversation filters for GetConversation. Nil fields are ignored.
type FindConversation struct {
	ID       *int64
	TenantID *string
}

// EndConversation carries the fields for closing a conversation. A second
// close keeps the original end timestamp, so repeating the call with the
// same summary leaves the row unchanged.
type EndConversation struct {
	ID      int64
	Summary *string
	EndedAt time.Time
}

// CreateConversation opens a new conversation for a tenant. Exactly one row
// is created per call.
func (s *Store) CreateConversation(ctx context.Context, tenantID string, startedAt time.Time) (*model.Conversation, error) {
	return s.driver.CreateConversation(ctx, tenantID, startedAt)
}

// GetConversation returns the conversation matching the filter, or nil when
// none matches.
func (s *Store) GetConversation(ctx context.Context, find *FindConversation) (*model.Conversation, error) {
	return s.driver.GetConversation(ctx, find)
}

// EndConversation sets the end timestamp and summary. Returns nil when the
// conversation id is unknown.
func (s *Store) EndConversation(ctx context.Context, end *EndConversation) (*model.Conversation, error) {
	return s.driver.EndConversation(ctx, end)
}
