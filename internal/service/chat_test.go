package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propstack/tenant-chatbot/internal/model"
	"github.com/propstack/tenant-chatbot/internal/store"
	"github.com/propstack/tenant-chatbot/internal/store/db/sqlite"
	"github.com/propstack/tenant-chatbot/pkg/logger"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sqlite.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return store.New(db)
}

func newTestChatService(t *testing.T, st *store.Store) *ChatService {
	t.Helper()
	return NewChatService(st, nil, logger.NewNop(), Options{
		TurnTimeout: 5 * time.Second,
		ActionIntents: map[string]string{
			"maintenance": "maintenance_request",
		},
	})
}

func seedTestKnowledge(t *testing.T, st *store.Store) {
	t.Helper()
	ctx := context.Background()
	entries := []*model.KnowledgeEntry{
		{
			Question: "When is rent due?",
			Answer:   "Rent is due on the first of each month.",
			Category: "billing",
			Keywords: "rent due date payment",
		},
		{
			Question: "How do I report a maintenance issue?",
			Answer:   "Describe the issue here and I will file a maintenance request.",
			Category: "maintenance",
			Keywords: "repair broken leak fix sink",
		},
	}
	for _, entry := range entries {
		_, err := st.CreateKnowledgeEntry(ctx, entry)
		require.NoError(t, err)
	}
}

func TestHandleTurn_NewConversation(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	svc := newTestChatService(t, st)
	ctx := context.Background()

	resp, err := svc.HandleTurn(ctx, "T1", nil, "when is my rent due?")
	require.NoError(t, err)
	assert.NotZero(t, resp.ConversationID)
	assert.NotZero(t, resp.MessageID)
	assert.Equal(t, "Rent is due on the first of each month.", resp.Message)
	require.NotNil(t, resp.Intent)
	assert.Equal(t, "billing", *resp.Intent)

	// The turn leaves exactly two ledger entries: the user message and
	// the bot reply.
	messages, err := st.ListMessages(ctx, &store.FindMessage{ConversationID: resp.ConversationID})
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, model.SenderBot, messages[0].Sender)
	assert.Equal(t, model.SenderUser, messages[1].Sender)
	require.NotNil(t, messages[0].Confidence)
	assert.Equal(t, store.KeywordMatchConfidence, *messages[0].Confidence)
}

func TestHandleTurn_DistinctConversations(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	svc := newTestChatService(t, st)
	ctx := context.Background()

	first, err := svc.HandleTurn(ctx, "T1", nil, "hello there")
	require.NoError(t, err)
	second, err := svc.HandleTurn(ctx, "T1", nil, "hello again")
	require.NoError(t, err)

	assert.NotEqual(t, first.ConversationID, second.ConversationID)
}

func TestHandleTurn_Fallback(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	svc := newTestChatService(t, st)

	resp, err := svc.HandleTurn(context.Background(), "T1", nil, "xyzzyqwx plughfoo")
	require.NoError(t, err)
	assert.Equal(t, DefaultFallbackReply, resp.Message)
	assert.Nil(t, resp.Intent)
}

func TestHandleTurn_EmptyText(t *testing.T) {
	st := newTestStore(t)
	svc := newTestChatService(t, st)

	_, err := svc.HandleTurn(context.Background(), "T1", nil, "   ")
	require.Error(t, err)
	assert.Equal(t, ErrorValidation, CodeOf(err))
}

func TestHandleTurn_UnknownConversation(t *testing.T) {
	st := newTestStore(t)
	svc := newTestChatService(t, st)

	missing := int64(9999)
	_, err := svc.HandleTurn(context.Background(), "T1", &missing, "hello")
	require.Error(t, err)
	assert.Equal(t, ErrorNotFound, CodeOf(err))
}

func TestHandleTurn_WrongTenant(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	svc := newTestChatService(t, st)
	ctx := context.Background()

	resp, err := svc.HandleTurn(ctx, "T1", nil, "hello")
	require.NoError(t, err)

	_, err = svc.HandleTurn(ctx, "T2", &resp.ConversationID, "hello again")
	require.Error(t, err)
	assert.Equal(t, ErrorNotFound, CodeOf(err))
}

func TestHandleTurn_EndedConversation(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	svc := newTestChatService(t, st)
	ctx := context.Background()

	resp, err := svc.HandleTurn(ctx, "T1", nil, "hello")
	require.NoError(t, err)
	_, err = svc.EndConversation(ctx, "T1", resp.ConversationID, "done")
	require.NoError(t, err)

	_, err = svc.HandleTurn(ctx, "T1", &resp.ConversationID, "one more thing")
	require.Error(t, err)
	assert.Equal(t, ErrorValidation, CodeOf(err))
}

func TestHandleTurn_ContextMemory(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	svc := newTestChatService(t, st)
	ctx := context.Background()

	first, err := svc.HandleTurn(ctx, "T1", nil, "when is rent due")
	require.NoError(t, err)
	_, err = svc.HandleTurn(ctx, "T1", &first.ConversationID, "my sink is broken")
	require.NoError(t, err)

	state, err := st.GetContext(ctx, first.ConversationID)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, float64(2), state.Data["turns"])
	assert.Equal(t, "my sink is broken", state.Data["last_user_message"])
	assert.Equal(t, "maintenance", state.Data["last_intent"])
}

func TestHandleTurn_RecordsAction(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	svc := newTestChatService(t, st)
	ctx := context.Background()

	resp, err := svc.HandleTurn(ctx, "T1", nil, "my sink is broken, please fix it")
	require.NoError(t, err)
	require.NotNil(t, resp.Intent)
	require.Equal(t, "maintenance", *resp.Intent)

	actions, err := st.ListActions(ctx, resp.MessageID)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "maintenance_request", actions[0].ActionType)
	assert.True(t, actions[0].Success)
}

func TestHandleTurn_NoActionWithoutMapping(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	svc := newTestChatService(t, st)
	ctx := context.Background()

	resp, err := svc.HandleTurn(ctx, "T1", nil, "when is rent due")
	require.NoError(t, err)

	actions, err := st.ListActions(ctx, resp.MessageID)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestEndConversation_Idempotent(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	svc := newTestChatService(t, st)
	ctx := context.Background()

	resp, err := svc.HandleTurn(ctx, "T1", nil, "hello")
	require.NoError(t, err)

	first, err := svc.EndConversation(ctx, "T1", resp.ConversationID, "resolved")
	require.NoError(t, err)
	require.NotNil(t, first.EndedAt)

	second, err := svc.EndConversation(ctx, "T1", resp.ConversationID, "resolved")
	require.NoError(t, err)
	require.NotNil(t, second.EndedAt)
	assert.True(t, second.EndedAt.Equal(*first.EndedAt))
}

func TestEndConversation_NotFound(t *testing.T) {
	st := newTestStore(t)
	svc := newTestChatService(t, st)

	_, err := svc.EndConversation(context.Background(), "T1", 9999, "")
	require.Error(t, err)
	assert.Equal(t, ErrorNotFound, CodeOf(err))
}

func TestHistory(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	svc := newTestChatService(t, st)
	ctx := context.Background()

	resp, err := svc.HandleTurn(ctx, "T1", nil, "when is rent due")
	require.NoError(t, err)
	_, err = svc.HandleTurn(ctx, "T1", &resp.ConversationID, "and the late fee?")
	require.NoError(t, err)

	messages, err := svc.History(ctx, "T1", resp.ConversationID, 3)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	// Most recent first.
	assert.Equal(t, model.SenderBot, messages[0].Sender)
	assert.Equal(t, "and the late fee?", messages[1].Text)
}

func TestHistory_WrongTenant(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	svc := newTestChatService(t, st)
	ctx := context.Background()

	resp, err := svc.HandleTurn(ctx, "T1", nil, "hello")
	require.NoError(t, err)

	_, err = svc.History(ctx, "T2", resp.ConversationID, 10)
	require.Error(t, err)
	assert.Equal(t, ErrorNotFound, CodeOf(err))
}

// eventRecorder captures published events in order.
type eventRecorder struct {
	events []*model.ChatEvent
}

func (r *eventRecorder) Publish(_ context.Context, event *model.ChatEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) ofType(eventType model.EventType) []*model.ChatEvent {
	var matched []*model.ChatEvent
	for _, event := range r.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func TestHandleTurn_PublishesActionEvent(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	recorder := &eventRecorder{}
	svc := NewChatService(st, recorder, logger.NewNop(), Options{
		ActionIntents: map[string]string{"maintenance": "maintenance_request"},
	})
	ctx := context.Background()

	resp, err := svc.HandleTurn(ctx, "T1", nil, "my sink is broken")
	require.NoError(t, err)

	turns := recorder.ofType(model.EventTypeTurnCompleted)
	require.Len(t, turns, 1)
	assert.Equal(t, resp.ConversationID, turns[0].ConversationID)

	actions := recorder.ofType(model.EventTypeActionRecorded)
	require.Len(t, actions, 1)
	assert.Equal(t, resp.MessageID, actions[0].MessageID)
	assert.Equal(t, "maintenance_request", actions[0].Metadata["action_type"])

	// A turn without a recorded action publishes no action event.
	_, err = svc.HandleTurn(ctx, "T1", &resp.ConversationID, "when is rent due")
	require.NoError(t, err)
	assert.Len(t, recorder.ofType(model.EventTypeActionRecorded), 1)
	assert.Len(t, recorder.ofType(model.EventTypeTurnCompleted), 2)
}

func TestEndConversation_PublishesEvent(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	recorder := &eventRecorder{}
	svc := NewChatService(st, recorder, logger.NewNop(), Options{})
	ctx := context.Background()

	resp, err := svc.HandleTurn(ctx, "T1", nil, "hello")
	require.NoError(t, err)
	_, err = svc.EndConversation(ctx, "T1", resp.ConversationID, "done")
	require.NoError(t, err)

	ended := recorder.ofType(model.EventTypeConversationEnded)
	require.Len(t, ended, 1)
	assert.Equal(t, resp.ConversationID, ended[0].ConversationID)
}

// botReplyFailDriver fails the bot reply write, inside and outside
// transactions, to exercise turn rollback.
type botReplyFailDriver struct {
	store.Driver
}

func (d *botReplyFailDriver) CreateMessage(ctx context.Context, create *store.CreateMessage) (*model.Message, error) {
	if create.Sender == model.SenderBot {
		return nil, errors.New("disk full")
	}
	return d.Driver.CreateMessage(ctx, create)
}

func (d *botReplyFailDriver) WithTx(ctx context.Context, fn func(store.Driver) error) error {
	return d.Driver.WithTx(ctx, func(tx store.Driver) error {
		return fn(&botReplyFailDriver{Driver: tx})
	})
}

func TestHandleTurn_FailureLeavesNoPartialWrites(t *testing.T) {
	db, err := sqlite.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clean := store.New(db)
	seedTestKnowledge(t, clean)

	svc := NewChatService(store.New(&botReplyFailDriver{Driver: db}), nil, logger.NewNop(), Options{})
	ctx := context.Background()

	_, err = svc.HandleTurn(ctx, "T1", nil, "when is rent due")
	require.Error(t, err)
	assert.Equal(t, ErrorStorage, CodeOf(err))

	// The whole turn rolled back: no conversation, so no orphaned user
	// message either.
	tenant := "T1"
	conv, err := clean.GetConversation(ctx, &store.FindConversation{TenantID: &tenant})
	require.NoError(t, err)
	assert.Nil(t, conv)
}

func TestHandleTurn_DeadlineMapsToTimeout(t *testing.T) {
	st := newTestStore(t)
	seedTestKnowledge(t, st)
	svc := NewChatService(st, nil, logger.NewNop(), Options{TurnTimeout: time.Nanosecond})

	_, err := svc.HandleTurn(context.Background(), "T1", nil, "when is rent due")
	require.Error(t, err)
	assert.Equal(t, ErrorTimeout, CodeOf(err))
}
