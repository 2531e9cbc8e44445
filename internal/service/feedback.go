package service

import (
	"context"
	"strings"
	"time"

	"github.com/propstack/tenant-chatbot/internal/model"
	"github.com/propstack/tenant-chatbot/internal/store"
	"github.com/propstack/tenant-chatbot/pkg/logger"
	"github.com/propstack/tenant-chatbot/pkg/metrics"
)

// FeedbackService records helpfulness ratings for bot messages.
type FeedbackService struct {
	store  *store.Store
	events EventPublisher
	logger *logger.Logger
}

// NewFeedbackService creates a feedback service. events may be nil.
func NewFeedbackService(st *store.Store, events EventPublisher, log *logger.Logger) *FeedbackService {
	return &FeedbackService{store: st, events: events, logger: log}
}

// Record appends one feedback row for a bot message. Repeated calls for
// the same message accumulate; earlier ratings are never overwritten. The
// rated message must exist and must be bot-authored.
func (s *FeedbackService) Record(ctx context.Context, tenantID string, messageID int64, helpful bool, text string) (*model.Feedback, error) {
	msg, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		return nil, newError(ErrorStorage, "load message failed", err)
	}
	if msg == nil {
		return nil, newError(ErrorNotFound, "message not found", nil)
	}
	if msg.Sender != model.SenderBot {
		return nil, newError(ErrorValidation, "feedback must reference a bot message", nil)
	}

	conv, err := s.store.GetConversation(ctx, &store.FindConversation{
		ID:       &msg.ConversationID,
		TenantID: &tenantID,
	})
	if err != nil {
		return nil, newError(ErrorStorage, "load conversation failed", err)
	}
	if conv == nil {
		return nil, newError(ErrorNotFound, "message not found", nil)
	}

	create := &store.CreateFeedback{
		MessageID: messageID,
		Helpful:   helpful,
		CreatedAt: time.Now().UTC(),
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		create.Text = &trimmed
	}

	fb, err := s.store.CreateFeedback(ctx, create)
	if err != nil {
		return nil, newError(ErrorStorage, "record feedback failed", err)
	}

	helpfulLabel := "false"
	if helpful {
		helpfulLabel = "true"
	}
	metrics.FeedbackTotal.WithLabelValues(tenantID, helpfulLabel).Inc()

	if s.events != nil {
		event := &model.ChatEvent{
			ConversationID: conv.ID,
			TenantID:       tenantID,
			Type:           model.EventTypeFeedbackReceived,
			MessageID:      messageID,
			Metadata:       model.Mapping{"helpful": helpful},
			CreatedAt:      fb.CreatedAt,
		}
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("event publish failed")
		}
	}
	return fb, nil
}
