package store

import (
	"context"
	"fmt"
	"time"

	"github.com/propstack/tenant-chatbot/internal/model"
)

// CreateAction is the payload for recording a bot side effect.
type CreateAction struct {
	MessageID  int64
	ActionType string
	Details    model.Mapping
	Success    bool
	CreatedAt  time.Time
}

// CreateFeedback is the payload for one helpfulness rating.
type CreateFeedback struct {
	MessageID int64
	Helpful   bool
	Text      *string
	CreatedAt time.Time
}

// CreateAction records a side effect keyed to the triggering bot message.
func (s *Store) CreateAction(ctx context.Context, create *CreateAction) (*model.Action, error) {
	if err := create.Details.Validate(); err != nil {
		return nil, fmt.Errorf("invalid details: %w", err)
	}
	return s.driver.CreateAction(ctx, create)
}

// ListActions returns the actions recorded for a message in write order,
// for audit and reporting.
func (s *Store) ListActions(ctx context.Context, messageID int64) ([]*model.Action, error) {
	return s.driver.ListActions(ctx, messageID)
}

// CreateFeedback appends one feedback row. No uniqueness is enforced on
// message id; repeated ratings accumulate.
func (s *Store) CreateFeedback(ctx context.Context, create *CreateFeedback) (*model.Feedback, error) {
	return s.driver.CreateFeedback(ctx, create)
}

// ListFeedback returns all feedback rows for a message in write order.
func (s *Store) ListFeedback(ctx context.Context, messageID int64) ([]*model.Feedback, error) {
	return s.driver.ListFeedback(ctx, messageID)
}
