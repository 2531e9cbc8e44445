package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/propstack/tenant-chatbot/internal/model"
	"github.com/propstack/tenant-chatbot/internal/store"
	"github.com/propstack/tenant-chatbot/pkg/logger"
	"github.com/propstack/tenant-chatbot/pkg/metrics"
)

// DefaultFallbackReply is sent when no knowledge entry ranks for the user
// message. It carries no intent and no confidence.
const DefaultFallbackReply = "I'm sorry, I don't have an answer for that yet. " +
	"You can reach the property office through the Contact page."

// EventPublisher emits chat events to the bus. Satisfied by
// *nats.EventPublisher; nil-able when no bus is configured.
type EventPublisher interface {
	Publish(ctx context.Context, event *model.ChatEvent) error
}

// Options tunes the chat service.
type Options struct {
	// TurnTimeout bounds one full turn including all storage round trips.
	// Zero disables the deadline.
	TurnTimeout time.Duration

	// FallbackReply overrides DefaultFallbackReply when non-empty.
	FallbackReply string

	// ActionIntents maps a matched knowledge category to the action type
	// recorded against the bot reply, e.g. "maintenance" ->
	// "maintenance_request".
	ActionIntents map[string]string
}

// ChatService orchestrates conversation turns: it opens conversations,
// loads context, queries the knowledge base, appends to the ledger and
// returns the bot reply. One instance serves all tenants; concurrent turns
// on the same conversation are a caller error (context writes are
// last-write-wins).
type ChatService struct {
	store         *store.Store
	events        EventPublisher
	logger        *logger.Logger
	turnTimeout   time.Duration
	fallbackReply string
	actionIntents map[string]string
}

// NewChatService creates a chat service. events may be nil when no event
// bus is configured.
func NewChatService(st *store.Store, events EventPublisher, log *logger.Logger, opts Options) *ChatService {
	fallback := opts.FallbackReply
	if fallback == "" {
		fallback = DefaultFallbackReply
	}
	return &ChatService{
		store:         st,
		events:        events,
		logger:        log,
		turnTimeout:   opts.TurnTimeout,
		fallbackReply: fallback,
		actionIntents: opts.ActionIntents,
	}
}

// HandleTurn processes one user message. A nil conversationID opens a new
// conversation for the tenant. All writes of the turn run in a single
// transaction; on any storage failure nothing of the turn is visible.
func (s *ChatService) HandleTurn(ctx context.Context, tenantID string, conversationID *int64, userText string) (*model.TurnResponse, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, newError(ErrorValidation, "message text must not be empty", nil)
	}

	if s.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.turnTimeout)
		defer cancel()
	}

	var conv *model.Conversation
	if conversationID != nil {
		found, err := s.store.GetConversation(ctx, &store.FindConversation{
			ID:       conversationID,
			TenantID: &tenantID,
		})
		if err != nil {
			return nil, s.storageError("load conversation", err)
		}
		if found == nil {
			return nil, newError(ErrorNotFound, "conversation not found", nil)
		}
		if !found.Open() {
			return nil, newError(ErrorValidation, "conversation already ended", nil)
		}
		conv = found
	}

	now := time.Now().UTC()
	var (
		botMsg *model.Message
		match  *model.KnowledgeMatch
		action *model.Action
	)

	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		var err error
		if conv == nil {
			if conv, err = tx.CreateConversation(ctx, tenantID, now); err != nil {
				return err
			}
		}

		memory, err := s.loadContext(ctx, tx, conv.ID)
		if err != nil {
			return err
		}

		if _, err = tx.CreateMessage(ctx, &store.CreateMessage{
			ConversationID: conv.ID,
			Sender:         model.SenderUser,
			Text:           userText,
			CreatedAt:      now,
		}); err != nil {
			return err
		}

		if match, err = tx.SearchKnowledge(ctx, userText); err != nil {
			return err
		}

		reply := &store.CreateMessage{
			ConversationID: conv.ID,
			Sender:         model.SenderBot,
			Text:           s.fallbackReply,
			CreatedAt:      now,
		}
		if match != nil {
			reply.Text = match.Answer
			reply.Intent = &match.Category
			reply.Confidence = &match.Confidence
		}
		if botMsg, err = tx.CreateMessage(ctx, reply); err != nil {
			return err
		}

		s.rememberTurn(memory, userText, match)
		if _, err = tx.UpsertContext(ctx, conv.ID, memory); err != nil {
			return err
		}

		action, err = s.recordAction(ctx, tx, conv, botMsg, match)
		return err
	})
	if err != nil {
		return nil, s.turnError(ctx, err)
	}

	matched := "false"
	if match != nil {
		matched = "true"
	}
	if conversationID == nil {
		metrics.ConversationsTotal.WithLabelValues(tenantID).Inc()
	}
	metrics.TurnsTotal.WithLabelValues(tenantID, matched).Inc()
	metrics.MessagesTotal.WithLabelValues(tenantID, string(model.SenderUser)).Inc()
	metrics.MessagesTotal.WithLabelValues(tenantID, string(model.SenderBot)).Inc()

	resp := &model.TurnResponse{
		ConversationID: conv.ID,
		Message:        botMsg.Text,
		MessageID:      botMsg.ID,
		Intent:         botMsg.Intent,
	}
	s.publish(ctx, conv, model.EventTypeTurnCompleted, botMsg.ID, botMsg.Intent, nil)
	if action != nil {
		s.publish(ctx, conv, model.EventTypeActionRecorded, botMsg.ID, botMsg.Intent, model.Mapping{
			"action_id":   action.ID,
			"action_type": action.ActionType,
		})
	}
	return resp, nil
}

// EndConversation closes a conversation, setting its end timestamp and
// summary. Closing an already closed conversation with the same summary is
// idempotent: the original end timestamp is kept.
func (s *ChatService) EndConversation(ctx context.Context, tenantID string, conversationID int64, summary string) (*model.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, &store.FindConversation{
		ID:       &conversationID,
		TenantID: &tenantID,
	})
	if err != nil {
		return nil, s.storageError("load conversation", err)
	}
	if conv == nil {
		return nil, newError(ErrorNotFound, "conversation not found", nil)
	}

	end := &store.EndConversation{ID: conversationID, EndedAt: time.Now().UTC()}
	if summary != "" {
		end.Summary = &summary
	}
	ended, err := s.store.EndConversation(ctx, end)
	if err != nil {
		return nil, s.storageError("end conversation", err)
	}
	if ended == nil {
		return nil, newError(ErrorNotFound, "conversation not found", nil)
	}

	s.publish(ctx, ended, model.EventTypeConversationEnded, 0, nil, nil)
	return ended, nil
}

// History returns up to limit ledger entries for the conversation, most
// recent first. Each call issues a fresh query.
func (s *ChatService) History(ctx context.Context, tenantID string, conversationID int64, limit int) ([]*model.Message, error) {
	conv, err := s.store.GetConversation(ctx, &store.FindConversation{
		ID:       &conversationID,
		TenantID: &tenantID,
	})
	if err != nil {
		return nil, s.storageError("load conversation", err)
	}
	if conv == nil {
		return nil, newError(ErrorNotFound, "conversation not found", nil)
	}

	messages, err := s.store.ListMessages(ctx, &store.FindMessage{
		ConversationID: conversationID,
		Limit:          limit,
	})
	if err != nil {
		return nil, s.storageError("list messages", err)
	}
	return messages, nil
}

func (s *ChatService) loadContext(ctx context.Context, tx *store.Store, conversationID int64) (model.Mapping, error) {
	state, err := tx.GetContext(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if state == nil || state.Data == nil {
		return model.Mapping{}, nil
	}
	return state.Data, nil
}

// rememberTurn folds the turn into the conversation's context memory.
func (s *ChatService) rememberTurn(memory model.Mapping, userText string, match *model.KnowledgeMatch) {
	memory["turns"] = mappingInt(memory, "turns") + 1
	memory["last_user_message"] = userText
	if match != nil {
		memory["last_intent"] = match.Category
		memory["last_knowledge_id"] = match.EntryID
	}
}

func (s *ChatService) recordAction(ctx context.Context, tx *store.Store, conv *model.Conversation, botMsg *model.Message, match *model.KnowledgeMatch) (*model.Action, error) {
	if match == nil {
		return nil, nil
	}
	actionType, ok := s.actionIntents[match.Category]
	if !ok {
		return nil, nil
	}

	action, err := tx.CreateAction(ctx, &store.CreateAction{
		MessageID:  botMsg.ID,
		ActionType: actionType,
		Details: model.Mapping{
			"conversation_id":  conv.ID,
			"matched_question": match.Question,
		},
		Success:   true,
		CreatedAt: botMsg.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("action recorded",
		zap.Int64("action_id", action.ID),
		zap.Int64("message_id", botMsg.ID),
		zap.String("action_type", actionType),
	)
	return action, nil
}

// turnError maps a failed turn to the service taxonomy. Deadline expiry
// wins over the storage error it usually manifests as.
func (s *ChatService) turnError(ctx context.Context, err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return newError(ErrorTimeout, "turn deadline exceeded", err)
	}
	return s.storageError("process turn", err)
}

func (s *ChatService) storageError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(ErrorTimeout, op+" deadline exceeded", err)
	}
	s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
	return newError(ErrorStorage, op+" failed", err)
}

func (s *ChatService) publish(ctx context.Context, conv *model.Conversation, eventType model.EventType, messageID int64, intent *string, metadata model.Mapping) {
	if s.events == nil {
		return
	}
	event := &model.ChatEvent{
		ConversationID: conv.ID,
		TenantID:       conv.TenantID,
		Type:           eventType,
		MessageID:      messageID,
		Metadata:       metadata,
		CreatedAt:      time.Now().UTC(),
	}
	if intent != nil {
		event.Intent = *intent
	}
	// Best effort: an unreachable event bus must not fail the turn.
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("type", string(eventType)),
			zap.Int64("conversation_id", conv.ID),
			zap.Error(err),
		)
	}
}

// mappingInt reads an integer out of context memory. JSON round trips store
// numbers as float64, so both representations are accepted.
func mappingInt(m model.Mapping, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
