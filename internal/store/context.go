package store

import (
	"context"
	"fmt"

	"github.com/propstack/tenant-chatbot/internal/model"
)

// GetContext returns the conversation's context record, or nil when none
// has been written yet.
func (s *Store) GetContext(ctx context.Context, conversationID int64) (*model.ContextState, error) {
	return s.driver.GetContext(ctx, conversationID)
}

// UpsertContext writes the conversation's context, overwriting any previous
// content and refreshing the updated timestamp. Concurrent writers for the
// same conversation are last-write-wins.
func (s *Store) UpsertContext(ctx context.Context, conversationID int64, data model.Mapping) (*model.ContextState, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("invalid context data: %w", err)
	}
	return s.driver.UpsertContext(ctx, conversationID, data)
}
