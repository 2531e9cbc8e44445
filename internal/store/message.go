package store

import (
	"context"
	"fmt"
	"time"

	"github.com/propstack/tenant-chatbot/internal/model"
)

// CreateMessage is the payload for appending to the conversation ledger.
type CreateMessage struct {
	ConversationID int64
	Sender         model.Sender
	Text           string
	Intent         *string
	Confidence     *float64
	Entities       model.Mapping
	CreatedAt      time.Time
}

// FindMessage filters for ListMessages.
type FindMessage struct {
	ConversationID int64
	// Limit caps the result size; zero or negative means no cap.
	Limit int
}

// CreateMessage appends one message. The ledger is append-only; messages
// are never updated.
func (s *Store) CreateMessage(ctx context.Context, create *CreateMessage) (*model.Message, error) {
	if err := create.Entities.Validate(); err != nil {
		return nil, fmt.Errorf("invalid entities: %w", err)
	}
	return s.driver.CreateMessage(ctx, create)
}

// GetMessage returns a message by id, or nil when unknown.
func (s *Store) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	return s.driver.GetMessage(ctx, id)
}

// ListMessages returns a conversation's messages most recent first. Each
// call issues a fresh query; no cursor state is retained.
func (s *Store) ListMessages(ctx context.Context, find *FindMessage) ([]*model.Message, error) {
	return s.driver.ListMessages(ctx, find)
}
